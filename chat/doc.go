// Package chat turns user questions into retrieval-augmented exchanges
// against the platform's ask endpoint.
//
// A Conversation holds an append-only transcript and the evidence chunks of
// the most recent exchange. One question is in flight at a time; while an
// answer is pending, further sends fail with ErrBusy. A question always grows
// the transcript by exactly one user message and one assistant message,
// success or failure: failures become a formatted "Error: ..." assistant
// entry, and the optimistic user append is never rolled back.
//
//	conv := chat.NewConversation(client, chat.WithTopK(5))
//	conv.SelectDocuments([]string{docID})
//
//	exchange, err := conv.Ask(ctx, "What is this about?")
//	if err == nil {
//		fmt.Println(exchange.Answer)
//		for _, chunk := range exchange.Chunks { ... }
//	}
//
// The chat/history subpackage persists transcripts locally between runs, and
// ExportHTML renders a transcript for sharing.
package chat
