package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/ronan-soo/Redoxide-Feature-Request-System/internal/model"
)

func TestToggle_NoIdentityNeverContactsStore(t *testing.T) {
	store := &fakeStore{}
	svc := NewVoteService(store, nil)

	_, err := svc.Toggle(context.Background(), nil, "feature-1")
	if !errors.Is(err, ErrSignInRequired) {
		t.Fatalf("expected ErrSignInRequired, got %v", err)
	}

	_, err = svc.Toggle(context.Background(), &model.Identity{}, "feature-1")
	if !errors.Is(err, ErrSignInRequired) {
		t.Fatalf("expected ErrSignInRequired for empty user id, got %v", err)
	}

	if store.toggleCalls != 0 {
		t.Error("store was contacted without an identity")
	}
}

func TestToggle_RoundTripRestoresState(t *testing.T) {
	store := &fakeStore{}
	f, _ := store.Create(context.Background(), "t", "d", "author", "a")
	svc := NewVoteService(store, nil)
	viewer := &model.Identity{UserID: "user-1"}

	resp, err := svc.Toggle(context.Background(), viewer, f.ID)
	if err != nil {
		t.Fatalf("first toggle failed: %v", err)
	}
	if !resp.Upvoted || resp.Upvotes != 1 {
		t.Fatalf("after add: upvoted=%v upvotes=%d, want true/1", resp.Upvoted, resp.Upvotes)
	}

	resp, err = svc.Toggle(context.Background(), viewer, f.ID)
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if resp.Upvoted || resp.Upvotes != 0 {
		t.Fatalf("after remove: upvoted=%v upvotes=%d, want false/0", resp.Upvoted, resp.Upvotes)
	}

	fr := store.find(f.ID)
	if fr.Upvotes != 0 || len(fr.UpvotedBy) != 0 {
		t.Errorf("round trip left upvotes=%d members=%d, want 0/0", fr.Upvotes, len(fr.UpvotedBy))
	}
}

func TestToggle_CounterTracksMembershipSet(t *testing.T) {
	store := &fakeStore{}
	f, _ := store.Create(context.Background(), "t", "d", "author", "a")
	svc := NewVoteService(store, nil)

	// An arbitrary toggle sequence from several users.
	sequence := []string{"u1", "u2", "u3", "u1", "u2", "u2", "u4"}
	for _, uid := range sequence {
		if _, err := svc.Toggle(context.Background(), &model.Identity{UserID: uid}, f.ID); err != nil {
			t.Fatalf("toggle for %s failed: %v", uid, err)
		}
	}

	fr := store.find(f.ID)
	if fr.Upvotes != len(fr.UpvotedBy) {
		t.Errorf("invariant broken: upvotes=%d, |upvotedBy|=%d", fr.Upvotes, len(fr.UpvotedBy))
	}
	// u1 toggled twice (off), u2 three times (on), u3 and u4 once (on).
	if fr.Upvotes != 3 {
		t.Errorf("upvotes = %d, want 3", fr.Upvotes)
	}
	if fr.HasUpvoted("u1") {
		t.Error("u1 toggled an even number of times and should not be a member")
	}
	for _, uid := range []string{"u2", "u3", "u4"} {
		if !fr.HasUpvoted(uid) {
			t.Errorf("%s should be a member", uid)
		}
	}
}

func TestToggle_UnknownFeature(t *testing.T) {
	svc := NewVoteService(&fakeStore{}, nil)

	_, err := svc.Toggle(context.Background(), &model.Identity{UserID: "u1"}, "missing")
	if !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected pgx.ErrNoRows for unknown feature, got %v", err)
	}
}
