// Package movierec embeds the movierec recommender in a Go program without
// running the HTTP service.
//
// The client loads a ratings dataset from CSV files or from a Redis/Valkey
// import, builds the quality-filtered catalog, and answers co-occurrence
// queries against it:
//
//	client, _ := movierec.New(ctx, movierec.WithCSV("movies.csv", "ratings.csv"))
//	defer client.Close()
//
//	recs, err := client.Recommend(ctx, "Toy Story 1995")
//	if errors.Is(err, movierec.ErrTitleNotFound) {
//	    // unknown title
//	}
//	if recs.Outcome == movierec.OutcomeNoSignal {
//	    // title resolved but nothing clears the relevance floor
//	}
//	for _, r := range recs.Items {
//	    fmt.Println(r.Title, r.Score)
//	}
package movierec
