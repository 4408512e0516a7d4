package dal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/logger"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/models"
)

// LoadPlayersFromFile imports a JSON array of players into the store.
// Players whose id already exists are skipped, so the import can run on every start.
// Returns the number of players added.
func LoadPlayersFromFile(store LeagueDAL, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read players file %s: %w", path, err)
	}

	var players []models.Player
	if err := json.Unmarshal(data, &players); err != nil {
		return 0, fmt.Errorf("failed to parse players file %s: %w", path, err)
	}

	added := 0
	for i := range players {
		p := players[i]
		if p.ID != 0 {
			_, err := store.GetPlayer(p.ID)
			if err == nil {
				continue
			}
			if !errors.Is(err, ErrPlayerNotFound) {
				return added, err
			}
		}
		if _, err := store.AddPlayer(&p); err != nil {
			return added, fmt.Errorf("failed to import %q: %w", p.Name, err)
		}
		added++
	}

	logger.Info("Imported players", "file", path, "added", added, "skipped", len(players)-added)
	return added, nil
}
