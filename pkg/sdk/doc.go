// Package esgrid is an embedded Go client for the esgrid inventory grid. It
// talks to Elasticsearch directly and applies the same query compilation,
// identity assignment and refresh-after-write rules as the HTTP service.
//
//	client, _ := esgrid.New(ctx, esgrid.WithElasticsearch("http://localhost:9200"))
//	defer client.Close()
//	_ = client.EnsureIndex(ctx)
//
//	page, _ := client.Inventory().Query(ctx, esgrid.NewQuery().
//	    Where(esgrid.Or(
//	        esgrid.Lt("quantityInStock", 50),
//	        esgrid.Eq("status", "Low Stock"),
//	    )).
//	    Search("bolt", "itemName", "sku").
//	    OrderByDesc("unitPrice").
//	    Take(20).
//	    Aggregate("quantityInStock", esgrid.AggSum).
//	    WithTotal())
package esgrid
