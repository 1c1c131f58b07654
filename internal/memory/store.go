package memory

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	// DefaultImportance applies when the caller passes 0.
	DefaultImportance = 3
	// retrievalWindow bounds retrieval to the newest entries. This is a
	// deliberate recency window: very old memories are unreachable no
	// matter how relevant, which keeps retrieval cheap and the coach
	// focused on the recent past.
	retrievalWindow = 20
	// DefaultRetrieveLimit is used when the caller passes 0.
	DefaultRetrieveLimit = 5

	importanceWeight = 0.5
	recencyBonus     = 2.0
	recencyWindow    = 24 * time.Hour
)

// Store is the gorm-backed memory journal.
type Store struct {
	db *gorm.DB
}

func NewStore(dbc *gorm.DB) *Store {
	return &Store{db: dbc}
}

// Save appends a new entry and returns its id. Importance 0 maps to the
// default of 3.
func (s *Store) Save(userID uint, kind Kind, content string, metadata map[string]interface{}, importance int) (string, error) {
	if importance == 0 {
		importance = DefaultImportance
	}
	entry := Entry{
		ID:         uuid.New().String(),
		UserID:     userID,
		Type:       kind,
		Content:    content,
		Metadata:   datatypes.JSONMap(metadata),
		Importance: importance,
		CreatedAt:  time.Now(),
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return "", fmt.Errorf("failed to store memory: %w", err)
	}
	return entry.ID, nil
}

// Retrieve returns up to limit entries ranked by a crude composite of
// keyword overlap, importance and recency. Only the newest 20 entries are
// considered (see retrievalWindow).
func (s *Store) Retrieve(userID uint, query string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultRetrieveLimit
	}
	var recent []Entry
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at desc").Limit(retrievalWindow).Find(&recent).Error; err != nil {
		return nil, fmt.Errorf("failed to load recent memories: %w", err)
	}

	now := time.Now()
	queryWords := strings.Fields(strings.ToLower(query))

	type ranked struct {
		entry Entry
		score float64
	}
	scored := make([]ranked, 0, len(recent))
	for _, e := range recent {
		scored = append(scored, ranked{entry: e, score: relevance(e, queryWords, now)})
	}
	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].score > scored[b].score
	})

	if limit > len(scored) {
		limit = len(scored)
	}
	out := make([]Entry, 0, limit)
	for _, r := range scored[:limit] {
		out = append(out, r.entry)
	}
	return out, nil
}

// relevance = keyword hits + importance*0.5 + 2 if entry is under 24h old.
func relevance(e Entry, queryWords []string, now time.Time) float64 {
	contentWords := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(e.Content)) {
		contentWords[w] = struct{}{}
	}
	hits := 0
	for _, q := range queryWords {
		if _, ok := contentWords[q]; ok {
			hits++
		}
	}
	score := float64(hits) + float64(e.Importance)*importanceWeight
	if now.Sub(e.CreatedAt) < recencyWindow {
		score += recencyBonus
	}
	return score
}
