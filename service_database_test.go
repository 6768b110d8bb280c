package mqttacl

import (
	"testing"
)

// TestServiceRulesDatabase tests rule management against a real database
func TestServiceRulesDatabase(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	defer helper.CleanupTestData()

	service := helper.GetService()
	ctx := helper.GetContext()

	topic := helper.TestTopic("sensors/+/temp")
	concrete := helper.TestTopic("sensors/livingroom/temp")
	userID := helper.TestUser("user")

	t.Run("Create rule", func(t *testing.T) {
		err := service.CreateRule(ctx, &ACLRule{
			Topic:  topic,
			Access: AccessSubscribe,
			Allow:  true,
			Users:  []string{userID},
		})
		if err != nil {
			t.Fatalf("CreateRule should succeed: %v", err)
		}
	})

	t.Run("Duplicate rule rejected", func(t *testing.T) {
		err := service.CreateRule(ctx, &ACLRule{Topic: topic, Access: AccessSubscribe})
		if !IsDuplicateRule(err) {
			t.Errorf("Expected duplicate rule error, got: %v", err)
		}
	})

	t.Run("Exact rule lookup", func(t *testing.T) {
		rule, err := service.ExactRule(ctx, topic, AccessSubscribe)
		if err != nil {
			t.Fatalf("ExactRule should succeed: %v", err)
		}
		if !rule.Wildcard {
			t.Error("Stored rule should have the wildcard flag derived")
		}

		_, err = service.ExactRule(ctx, topic, AccessPublish)
		if !IsRuleNotFound(err) {
			t.Errorf("Expected rule not found, got: %v", err)
		}
	})

	t.Run("Engine resolves stored rule", func(t *testing.T) {
		allowed, err := service.Engine().CheckACL(ctx, concrete, AccessSubscribe, NewPrincipal(userID), "")
		if err != nil {
			t.Fatalf("CheckACL should succeed: %v", err)
		}
		if !allowed {
			t.Error("Member should be allowed by the stored rule")
		}

		allowed, err = service.Engine().CheckACL(ctx, concrete, AccessSubscribe, NewPrincipal(userID+"-other"), "")
		if err != nil {
			t.Fatalf("CheckACL should succeed: %v", err)
		}
		if allowed {
			t.Error("Non-member should be denied by the scoped allow rule")
		}
	})

	t.Run("Update allow flag", func(t *testing.T) {
		if err := service.UpdateRuleAllow(ctx, topic, AccessSubscribe, false); err != nil {
			t.Fatalf("UpdateRuleAllow should succeed: %v", err)
		}
		rule, err := service.ExactRule(ctx, topic, AccessSubscribe)
		if err != nil {
			t.Fatalf("ExactRule should succeed: %v", err)
		}
		if rule.Allow {
			t.Error("Allow flag should be false after update")
		}

		err = service.UpdateRuleAllow(ctx, helper.TestTopic("missing"), AccessSubscribe, true)
		if !IsRuleNotFound(err) {
			t.Errorf("Expected rule not found, got: %v", err)
		}
	})

	t.Run("Delete rule", func(t *testing.T) {
		if err := service.DeleteRule(ctx, topic, AccessSubscribe); err != nil {
			t.Fatalf("DeleteRule should succeed: %v", err)
		}
		err := service.DeleteRule(ctx, topic, AccessSubscribe)
		if !IsRuleNotFound(err) {
			t.Errorf("Expected rule not found, got: %v", err)
		}
	})
}

// TestServiceTopicsDatabase tests the topic store and candidate queries
func TestServiceTopicsDatabase(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	defer helper.CleanupTestData()

	service := helper.GetService()
	ctx := helper.GetContext()

	names := []string{
		helper.TestTopic("a"),
		helper.TestTopic("a/b"),
		helper.TestTopic("a/b/c"),
		helper.TestTopic("x/y"),
	}
	for _, name := range names {
		if _, err := service.RegisterTopic(ctx, name); err != nil {
			t.Fatalf("RegisterTopic(%q) should succeed: %v", name, err)
		}
	}

	t.Run("Registering twice is not an error", func(t *testing.T) {
		if _, err := service.RegisterTopic(ctx, names[0]); err != nil {
			t.Errorf("Duplicate RegisterTopic should succeed: %v", err)
		}
	})

	t.Run("Matching topics for a filter", func(t *testing.T) {
		topics, err := service.MatchingTopics(ctx, MustTopic(helper.TestTopic("a/#")))
		if err != nil {
			t.Fatalf("MatchingTopics should succeed: %v", err)
		}
		if len(topics) != 3 {
			t.Errorf("Expected 3 matches, got %d: %v", len(topics), topics)
		}
	})

	t.Run("Non-wildcard filter matches itself", func(t *testing.T) {
		topics, err := service.MatchingTopics(ctx, MustTopic(names[3]))
		if err != nil {
			t.Fatalf("MatchingTopics should succeed: %v", err)
		}
		if len(topics) != 1 || topics[0].Name() != names[3] {
			t.Errorf("Expected exactly %q, got %v", names[3], topics)
		}
	})
}

// TestServiceMembershipDatabase tests group memberships and client ids
func TestServiceMembershipDatabase(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	defer helper.CleanupTestData()

	service := helper.GetService()
	ctx := helper.GetContext()

	userID := helper.TestUser("user")
	groupID := helper.TestUser("ops")

	t.Run("Add and read membership", func(t *testing.T) {
		if err := service.AddGroupMember(ctx, userID, groupID); err != nil {
			t.Fatalf("AddGroupMember should succeed: %v", err)
		}
		// Idempotent on duplicates.
		if err := service.AddGroupMember(ctx, userID, groupID); err != nil {
			t.Errorf("Duplicate AddGroupMember should succeed: %v", err)
		}

		groups, err := service.GroupMembership(ctx, userID)
		if err != nil {
			t.Fatalf("GroupMembership should succeed: %v", err)
		}
		if len(groups) != 1 || groups[0] != groupID {
			t.Errorf("Expected [%s], got %v", groupID, groups)
		}
	})

	t.Run("Remove membership", func(t *testing.T) {
		if err := service.RemoveGroupMember(ctx, userID, groupID); err != nil {
			t.Fatalf("RemoveGroupMember should succeed: %v", err)
		}
		groups, err := service.GroupMembership(ctx, userID)
		if err != nil {
			t.Fatalf("GroupMembership should succeed: %v", err)
		}
		if len(groups) != 0 {
			t.Errorf("Expected no groups, got %v", groups)
		}
	})

	t.Run("Client id registry", func(t *testing.T) {
		clientID := helper.TestUser("c")
		err := service.RegisterClientID(ctx, &ClientID{Name: clientID, Users: []string{userID}})
		if err != nil {
			t.Fatalf("RegisterClientID should succeed: %v", err)
		}

		rec, err := service.LookupClientID(ctx, clientID)
		if err != nil {
			t.Fatalf("LookupClientID should succeed: %v", err)
		}
		if rec == nil || rec.IsPublic() {
			t.Errorf("Expected a restricted record, got %+v", rec)
		}

		rec, err = service.LookupClientID(ctx, helper.TestUser("x"))
		if err != nil {
			t.Fatalf("LookupClientID should succeed: %v", err)
		}
		if rec != nil {
			t.Errorf("Expected no record, got %+v", rec)
		}
	})
}

// TestServiceHealthDatabase tests health monitoring with a real database
func TestServiceHealthDatabase(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	defer helper.CleanupTestData()

	health := NewHealthService(helper.GetService())
	ctx := helper.GetContext()

	t.Run("Health check", func(t *testing.T) {
		status := health.Health(ctx)
		if !status.Healthy {
			t.Errorf("Database should be healthy, got: %+v", status)
		}
	})

	t.Run("IsHealthy check", func(t *testing.T) {
		if !health.IsHealthy(ctx) {
			t.Error("Database should be healthy")
		}
	})

	t.Run("Ping test", func(t *testing.T) {
		if err := health.Ping(ctx); err != nil {
			t.Errorf("Ping should succeed: %v", err)
		}
	})

	t.Run("Get pool stats", func(t *testing.T) {
		stats := health.GetPoolStats()
		t.Logf("Pool stats: %+v", stats)
	})
}

// TestServiceTransactionsDatabase tests the transactional rule path
func TestServiceTransactionsDatabase(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	defer helper.CleanupTestData()

	service := helper.GetService()
	ctx := helper.GetContext()

	topic := helper.TestTopic("tx/a")

	t.Run("Rule creation registers its topic", func(t *testing.T) {
		err := service.CreateRule(ctx, &ACLRule{Topic: topic, Access: AccessPublish, Allow: true})
		if err != nil {
			t.Fatalf("CreateRule should succeed: %v", err)
		}

		topics, err := service.MatchingTopics(ctx, MustTopic(topic))
		if err != nil {
			t.Fatalf("MatchingTopics should succeed: %v", err)
		}
		if len(topics) != 1 {
			t.Errorf("Rule topic should be registered, got %v", topics)
		}
	})

	t.Run("Rule with secret", func(t *testing.T) {
		secretTopic := helper.TestTopic("tx/secret")
		rule := &ACLRule{Topic: secretTopic, Access: AccessSubscribe, Allow: false}
		if err := service.CreateRuleWithSecret(ctx, rule, "hunter2"); err != nil {
			t.Fatalf("CreateRuleWithSecret should succeed: %v", err)
		}

		stored, err := service.ExactRule(ctx, secretTopic, AccessSubscribe)
		if err != nil {
			t.Fatalf("ExactRule should succeed: %v", err)
		}
		if !stored.CheckSecret("hunter2") {
			t.Error("Stored secret should verify")
		}
		if stored.CheckSecret("wrong") {
			t.Error("Wrong secret should not verify")
		}
	})
}
