// Package documents mediates between the document API and UI-facing state
// for the user's document set.
//
// The Catalog caches the document list in memory and replaces it wholesale
// via Reload after every mutating action (upload, delete, processing
// request), trading efficiency for simplicity: there is no incremental merge
// and therefore no cache-coherency bugs. Uploads are validated locally
// (extension and size) before any network call.
//
//	catalog := documents.NewCatalog(client)
//	if err := catalog.Reload(ctx); err != nil { ... }
//
//	doc, err := catalog.Upload(ctx, "notes.md", f, info.Size(), func(pct int) {
//		fmt.Printf("\rUploading... %d%%", pct)
//	})
package documents
