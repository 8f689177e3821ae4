package redis

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client, "test:"), mr
}

func TestStoreSetsPrefixedKeys(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, "userPoints", []byte(`{"version":1}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !mr.Exists("test:userPoints") {
		t.Fatalf("expected redis key to be set")
	}
	got, err := mr.Get("test:userPoints")
	if err != nil {
		t.Fatalf("miniredis get: %v", err)
	}
	if got != `{"version":1}` {
		t.Errorf("stored value = %q", got)
	}

	data, err := s.Load(ctx, "userPoints")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(data) != `{"version":1}` {
		t.Errorf("load = %q", data)
	}

	if err := s.Delete(ctx, "userPoints"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if mr.Exists("test:userPoints") {
		t.Fatalf("expected redis key to be removed")
	}
}

func TestLoadMissingKey(t *testing.T) {
	s, _ := newTestStore(t)

	data, err := s.Load(context.Background(), "quizStates")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if data != nil {
		t.Errorf("load missing = %q, want nil", data)
	}
}

func TestLoadReportsConnectionErrors(t *testing.T) {
	s, mr := newTestStore(t)
	mr.Close()

	if _, err := s.Load(context.Background(), "quizStates"); err == nil {
		t.Fatal("expected an error once redis is gone")
	}
}

func TestOpen(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	s, err := Open(context.Background(), mr.Addr(), "", 0, DefaultPrefix)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	if err := s.Save(context.Background(), "k", []byte("v")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !mr.Exists(DefaultPrefix + "k") {
		t.Error("expected default prefix on key")
	}
}
