// Package symdx embeds the symdx symptom matcher in a Go program.
//
// The client runs the whole pipeline in-process: colloquial Spanish symptom descriptions
// are normalized, matched against the canonical vocabulary with character n-gram TF-IDF
// similarity and scored against weighted condition profiles.
//
//	client, _ := symdx.New(ctx)
//	res, _ := client.Diagnose(ctx, []string{"me duele la cabeza y me molesta la luz"})
//	for _, d := range res.Diagnoses {
//	    fmt.Println(d.Condition, d.Confidence, d.Recommendation)
//	}
//
// # History
//
// With WithValkey or WithRedis every diagnosis is also stored and can be read back with
// Client.History. Without a store the client keeps no state.
package symdx
