package inmemory_test

import (
	"context"
	"testing"
	"time"

	"github.com/rcarvalho-pb/pin_fulfillment-go/internal/domain/pin"
	"github.com/rcarvalho-pb/pin_fulfillment-go/internal/infrastructure/persistence/inmemory"
)

func TestPinRepository_SaveIsLastWriteWinsByCode(t *testing.T) {
	repo := inmemory.NewPinRepository()
	ctx := context.Background()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	p := pin.New("654321", "pay-1", now)

	if err := repo.Save(ctx, p); err != nil {
		t.Fatal(err)
	}
	if err := repo.Save(ctx, pin.New("654321", "pay-1", now)); err != nil {
		t.Fatal(err)
	}

	if len(repo.Pins()) != 1 {
		t.Fatalf("expected one document per code, got %d", len(repo.Pins()))
	}

	got, err := repo.FindByCode(ctx, "654321")
	if err != nil {
		t.Fatal(err)
	}

	if *got != *p {
		t.Errorf("expected identical document after double save")
	}
}

func TestPinRepository_FindByCode_NotFound(t *testing.T) {
	repo := inmemory.NewPinRepository()

	_, err := repo.FindByCode(context.Background(), "000000")
	if err != inmemory.ErrPinNotFound {
		t.Errorf("expected ErrPinNotFound, got %v", err)
	}
}
