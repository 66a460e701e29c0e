// Package searchd provides an embedded Go client for the document search
// service: the same backends and facade the HTTP server uses, wired
// in-process without the HTTP transport.
//
//	client, _ := searchd.New(searchd.WithSQLite("/var/lib/searchd/fts.db"))
//	defer client.Close()
//
//	_, _ = client.Upsert(ctx, []searchd.Document{
//	    {ID: "d1", Content: "invoice overdue payment"},
//	}, "")
//	res, _ := client.Query(ctx, "overdue", 5)
package searchd
