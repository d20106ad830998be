// Package solrdex is an embeddable Go client for searching Sitecore content
// indexed in Solr. It compiles search criteria into Solr select queries,
// runs them and maps the replies back into typed results, applying
// per-document visibility along the way.
//
// # Low-level API: explicit queries over the default Item projection
//
//	client, _ := solrdex.New(ctx, solrdex.WithSolr("http://localhost:8983/solr", "sitecore_web_index"))
//	res, _ := client.Search(ctx, solrdex.NewQuery("energy").
//	    Where("category", "news", "blog").
//	    Facet("category").
//	    Page(1, 20))
//
// # High-level API: schema-first with Go generics
//
//	type Article struct {
//	    ID    string    `solrdex:"_uniqueid"`
//	    Title string    `solrdex:"title_t"`
//	    Tags  []string  `solrdex:"tags_sm"`
//	    Date  time.Time `solrdex:"date_tdt"`
//	}
//
//	idx, _ := solrdex.NewIndex[Article](client)
//	res, _ := idx.Search(ctx, solrdex.NewQuery("energy").OrderByDescending("date_tdt"))
package solrdex
