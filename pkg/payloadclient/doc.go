// Package payloadclient creates configured Payload API clients.
//
// The package wires together the transport, authentication, and caching
// layers behind the payload.Client interface:
//
//	client, err := payloadclient.New(ctx, &payload.Config{
//		BaseURL: "https://cms.example.com",
//		APIKey:  os.Getenv("PAYLOAD_API_KEY"),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	posts, err := client.Collections().Find(ctx, "posts",
//		payload.NewQuery().Where("status", payload.OpEquals, "published"))
//
// Credentials follow the precedence documented on payload.Config: an API
// key, then a static JWT, then email/password login.
package payloadclient
