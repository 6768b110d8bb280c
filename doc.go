// Package mqttacl implements MQTT topic semantics and an
// access-control decision engine for a broker's authorization layer:
// given a topic and an intended operation (publish or subscribe), it
// decides whether a principal (user, group member, or anonymous) is
// allowed to perform it, resolving wildcard ACL rules by specificity.
//
// # Core Concepts
//
// Topic: a validated MQTT topic name or filter. Filters may contain
// '+' (one level) and '#' (all remaining levels, final level only).
// Topics starting with '$' are broker-internal and are never matched
// by plain wildcard filters. Topic.Covers is the matching predicate.
//
// Rule: one ACLRule per (topic filter, access kind) pair, carrying an
// allow flag, an optional user/group allow set, and an optional
// hashed secret for connect-time checks. A rule with no users, groups
// or secret is public and applies to everyone. A rule on the bare '#'
// filter is the broadcast rule: the default policy when nothing else
// matches.
//
// Resolution: an exact rule always beats wildcard rules; among
// covering wildcard rules the most specific (narrowest) filter wins,
// with a deterministic byte-wise tie-break for equal specificity.
//
// Evaluation: a public rule decides by its allow flag; a principal in
// the rule's set gets the flag, one outside the set gets its inverse;
// a supplied secret overrides the membership decision via constant
// time verification. Store failures always deny (fail-closed).
//
// # Basic Usage
//
//	// 1. Open the store and run migrations
//	db, _ := dbkit.New(dbkit.Config{URL: "postgres://..."})
//	service := mqttacl.NewService(db, mqttacl.Config{DefaultAllow: false})
//	db.Migrate(ctx, mqttacl.NewMigrationService(service).Migrations())
//
//	// 2. Define rules
//	service.CreateRule(ctx, &mqttacl.ACLRule{
//	    Topic:  "sensors/#",
//	    Access: mqttacl.AccessSubscribe,
//	    Allow:  true,
//	})
//	service.CreateRule(ctx, &mqttacl.ACLRule{
//	    Topic:  "sensors/secret",
//	    Access: mqttacl.AccessSubscribe,
//	    Allow:  false,
//	    Users:  []string{"operator"},
//	})
//
//	// 3. Check permissions
//	engine := service.Engine()
//	ok, _ := engine.CheckACL(ctx, "sensors/livingroom", mqttacl.AccessSubscribe,
//	    mqttacl.NewPrincipal("user42"), "")
//
// # Broker Integration
//
// AuthHook adapts the engine to a mochi-mqtt server, running the
// connect check at CONNECT and the ACL check at PUBLISH and SUBSCRIBE
// time, and forwarding connect/publish/disconnect notifications to an
// Events dispatcher:
//
//	events := mqttacl.NewEvents()
//	events.OnPublish(func(ev mqttacl.PublishEvent) {
//	    // fire-and-forget: audit, metrics, bridging...
//	})
//	server := mqtt.New(nil)
//	server.AddHook(mqttacl.NewAuthHook(engine, events, nil), nil)
//
// # Embedded Use
//
// MemoryStore is a map-backed store for brokers that load their ACL at
// startup; it implements the same RuleStore interface as Service:
//
//	store := mqttacl.NewMemoryStore()
//	store.AddRule(&mqttacl.ACLRule{Topic: "#", Access: mqttacl.AccessPublish, Allow: true})
//	engine := mqttacl.NewEngine(store, mqttacl.Config{}, nil)
package mqttacl
