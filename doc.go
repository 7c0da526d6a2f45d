// docuchat-go is a Go client for the docuchat document-intelligence
// platform: upload documents, trigger server-side processing, and ask
// natural-language questions answered via retrieval-augmented generation
// against your documents.
//
// The module is split into small, composable packages:
//
//   - apiclient: HTTP access to the platform gateway with bearer auth,
//     streaming uploads and normalized failures
//   - session: token persistence and the login/restore/logout state machine
//   - documents: the user's document catalog (list, upload, process, delete)
//   - chat: the question/answer loop with transcript and retrieval evidence
//   - log: a leveled logging facade shared by all of the above
//
// A minimal end-to-end flow:
//
//	client := apiclient.New(apiclient.WithBaseURL(baseURL))
//	store, _ := file.NewStore(sessionDir)
//	manager := session.NewManager(client, store)
//	client.SetTokenSource(manager)
//
//	manager.Restore(ctx)
//	if !manager.IsAuthenticated() {
//		manager.Login(ctx, googleIDToken)
//	}
//
//	catalog := documents.NewCatalog(client)
//	doc, _ := catalog.Upload(ctx, "notes.md", f, size, nil)
//	catalog.RequestProcessing(ctx, doc.ID)
//
//	conv := chat.NewConversation(client)
//	exchange, _ := conv.Ask(ctx, "What is this about?")
//
// Runnable programs live under examples/.
package docuchat
