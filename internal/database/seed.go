package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/example/vocabbox/pkg/models"
)

// builtinList is one bundled list with its term pairs
type builtinList struct {
	name  string
	pairs [][2]string // source, target
}

// Bundled starter lists. Built-in lists ship inactive; the user opts in
// per list and the choice is stored as a preference.
var builtinLists = []builtinList{
	{
		name: "Die 200 wichtigsten Wörter",
		pairs: [][2]string{
			{"Haus", "house"},
			{"Wasser", "water"},
			{"Zeit", "time"},
			{"Jahr", "year"},
			{"Mensch", "human"},
			{"Arbeit", "work"},
			{"Freund", "friend"},
			{"Stadt", "city"},
			{"Geld", "money"},
			{"Frage", "question"},
		},
	},
	{
		name: "A1 Sprachniveau",
		pairs: [][2]string{
			{"Apfel", "apple"},
			{"Brot", "bread"},
			{"Tisch", "table"},
			{"Stuhl", "chair"},
			{"Fenster", "window"},
			{"Buch", "book"},
			{"Schule", "school"},
			{"Hund", "dog"},
		},
	},
	{
		name: "Business Englisch",
		pairs: [][2]string{
			{"Vertrag", "contract"},
			{"Rechnung", "invoice"},
			{"Besprechung", "meeting"},
			{"Frist", "deadline"},
			{"Umsatz", "revenue"},
			{"Angebot", "offer"},
		},
	},
}

// SeedBuiltinLists materializes the bundled lists once, when the store
// holds no lists at all. Every item starts at box 0 with zero counters.
func SeedBuiltinLists(db *sqlx.DB) error {
	lists := NewListRepository(db)
	vocab := NewVocabularyRepository(db)

	seeded, err := lists.HasAny()
	if err != nil {
		return err
	}
	if seeded {
		return nil
	}

	now := time.Now().UTC()
	for _, bl := range builtinLists {
		list := &models.VocabularyList{
			ID:              uuid.NewString(),
			Name:            bl.name,
			VocabularyCount: len(bl.pairs),
			IsActive:        false,
			IsBuiltin:       true,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := lists.Upsert(list); err != nil {
			return err
		}

		for _, pair := range bl.pairs {
			item := &models.Vocabulary{
				ID:         uuid.NewString(),
				ListID:     list.ID,
				SourceText: pair[0],
				TargetText: pair[1],
				Box:        models.BoxNew,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := vocab.Upsert(item); err != nil {
				return err
			}
		}
	}
	return nil
}
