package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/chris/golf-league-ledger/pkg/models"
	"github.com/chris/golf-league-ledger/pkg/storage/memory"
)

// seedFile is the fixture format accepted by MEMORY_SEED_FILE.
type seedFile struct {
	Members      []models.Member      `json:"members"`
	Transactions []models.Transaction `json:"transactions"`
	Tournaments  []models.Tournament  `json:"tournaments"`
	TourCards    []models.TourCard    `json:"tour_cards"`
	Teams        []models.Team        `json:"teams"`
}

func seedMemoryStore(store *memory.Store, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}
	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}

	for _, m := range seed.Members {
		store.PutMember(m)
	}
	for _, tx := range seed.Transactions {
		store.PutTransaction(tx)
	}
	for _, t := range seed.Tournaments {
		store.PutTournament(t)
	}
	for _, c := range seed.TourCards {
		store.PutTourCard(c)
	}
	for _, t := range seed.Teams {
		store.PutTeam(t)
	}
	return nil
}
