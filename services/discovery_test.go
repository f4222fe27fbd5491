package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tool-radar/config"
	"tool-radar/models"
	"tool-radar/providers"
)

// fakeStore ist ein In-Memory-ToolStore für Pipeline-Tests ohne Datenbank.
type fakeStore struct {
	mu              sync.Mutex
	tools           map[string]*models.Tool
	statuses        map[string]models.DiscoverySourceStatus
	failInsertNames map[string]bool
	failFindByName  bool
	failCountAll    bool
	failCountSince  bool
	nextID          uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tools:    make(map[string]*models.Tool),
		statuses: make(map[string]models.DiscoverySourceStatus),
	}
}

func (s *fakeStore) FindByName(name string) (*models.Tool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFindByName {
		return nil, errors.New("find failed")
	}
	tool, ok := s.tools[name]
	if !ok {
		return nil, nil
	}
	copied := *tool
	return &copied, nil
}

func (s *fakeStore) Insert(tool *models.Tool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failInsertNames[tool.Name] {
		return errors.New("insert failed")
	}
	s.nextID++
	tool.ID = s.nextID
	tool.CreatedAt = time.Now().UTC()
	tool.TrendingScore = tool.ComputeTrendingScore()
	copied := *tool
	s.tools[tool.Name] = &copied
	return nil
}

func (s *fakeStore) UpsertSourceStatus(status *models.DiscoverySourceStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[status.SourceName] = *status
	return nil
}

func (s *fakeStore) ListSourceStatuses() ([]models.DiscoverySourceStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.DiscoverySourceStatus, 0, len(s.statuses))
	for _, st := range s.statuses {
		out = append(out, st)
	}
	return out, nil
}

func (s *fakeStore) CountAll() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCountAll {
		return 0, errors.New("count failed")
	}
	return int64(len(s.tools)), nil
}

func (s *fakeStore) CountSince(since time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCountSince {
		return 0, errors.New("count failed")
	}
	var n int64
	for _, tool := range s.tools {
		if tool.CreatedAt.After(since) {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) ListTrending(limit int) ([]models.Tool, error) {
	return s.list(limit), nil
}

func (s *fakeStore) ListRecent(limit, windowDays int) ([]models.Tool, error) {
	return s.list(limit), nil
}

func (s *fakeStore) ListAll() ([]models.Tool, error) {
	return s.list(len(s.tools) + 1), nil
}

func (s *fakeStore) list(limit int) []models.Tool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Tool, 0, len(s.tools))
	for _, tool := range s.tools {
		if len(out) >= limit {
			break
		}
		out = append(out, *tool)
	}
	return out
}

// fakeProvider liefert feste Kandidaten oder einen festen Fehler.
type fakeProvider struct {
	name       string
	candidates []models.RawCandidate
	err        error
	block      chan struct{}
	started    chan struct{}
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Fetch(ctx context.Context) ([]models.RawCandidate, error) {
	if p.started != nil {
		close(p.started)
	}
	if p.block != nil {
		<-p.block
	}
	return p.candidates, p.err
}

func candidate(source, name, description string) models.RawCandidate {
	return models.RawCandidate{
		SourceName:  source,
		Name:        name,
		Description: description,
		Website:     "https://" + name + ".ai",
		Metrics:     map[string]float64{"votes": 50, "comments": 10},
	}
}

func newTestService(store ToolStore, provs ...providers.Provider) *DiscoveryService {
	return NewDiscoveryService(&config.Config{}, store, nil, zap.NewNop(), provs, NewPlaceholderEnricher(1))
}

func TestRunPersistsAcceptedCandidates(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeProvider{
		name: providers.SourceProductHunt,
		candidates: []models.RawCandidate{
			candidate(providers.SourceProductHunt, "chatflow", "AI assistant for customer support conversations"),
			candidate(providers.SourceProductHunt, "desklamp", "A nicer lamp for your desk"),
		},
	})

	result, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Found)
	assert.Equal(t, 1, result.Accepted)
	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 0, result.Duplicates)
	assert.Equal(t, 1, result.Sources[providers.SourceProductHunt].Added)

	tool, err := store.FindByName("chatflow")
	require.NoError(t, err)
	require.NotNil(t, tool)
	assert.Equal(t, "Chatbots", tool.Category)
	assert.GreaterOrEqual(t, tool.Rating, 4.0)
	assert.NotEmpty(t, tool.Pricing)

	rejected, err := store.FindByName("desklamp")
	require.NoError(t, err)
	assert.Nil(t, rejected)

	status := store.statuses[providers.SourceProductHunt]
	assert.Equal(t, models.SourceStatusSuccess, status.Status)
	assert.Equal(t, 2, status.ToolsFound)
	assert.Equal(t, 1, status.ToolsAdded)
}

func TestRunIsIdempotentOnName(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeProvider{
		name: providers.SourceProductHunt,
		candidates: []models.RawCandidate{
			candidate(providers.SourceProductHunt, "chatflow", "AI assistant for support"),
		},
	})

	first, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Added)

	second, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Added)
	assert.Equal(t, 1, second.Duplicates)

	total, err := store.CountAll()
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestRunIsolatesFailedSource(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store,
		&fakeProvider{name: providers.SourceGitHub, err: errors.New("rate limited")},
		&fakeProvider{
			name: providers.SourceProductHunt,
			candidates: []models.RawCandidate{
				candidate(providers.SourceProductHunt, "scribbly", "AI writing copilot"),
			},
		},
	)

	result, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "rate limited", result.Sources[providers.SourceGitHub].Error)
	assert.Equal(t, 1, result.Added)
	assert.Equal(t, models.SourceStatusError, store.statuses[providers.SourceGitHub].Status)
	assert.Equal(t, models.SourceStatusSuccess, store.statuses[providers.SourceProductHunt].Status)
}

func TestRunIsolatesCandidateFailures(t *testing.T) {
	store := newFakeStore()
	store.failInsertNames = map[string]bool{"broken": true}
	svc := newTestService(store, &fakeProvider{
		name: providers.SourceProductHunt,
		candidates: []models.RawCandidate{
			candidate(providers.SourceProductHunt, "broken", "AI assistant one"),
			candidate(providers.SourceProductHunt, "working", "AI assistant two"),
		},
	})

	result, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.Added)
	tool, err := store.FindByName("working")
	require.NoError(t, err)
	assert.NotNil(t, tool)
}

func TestRunRejectsOverlap(t *testing.T) {
	store := newFakeStore()
	blocker := &fakeProvider{
		name:    providers.SourceHackerNews,
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}
	svc := newTestService(store, blocker)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = svc.Run(context.Background())
	}()

	<-blocker.started
	_, err := svc.Run(context.Background())
	assert.ErrorIs(t, err, ErrRunInProgress)

	close(blocker.block)
	<-done
}

func TestStartContinuousRejectsSecondStart(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeProvider{name: providers.SourceProductHunt})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, svc.StartContinuous(ctx, time.Hour))
	assert.ErrorIs(t, svc.StartContinuous(ctx, time.Hour), ErrContinuousActive)
}

func TestCanonicalizeFillsFallbacks(t *testing.T) {
	svc := newTestService(newFakeStore())
	tool := svc.canonicalize(&models.RawCandidate{
		SourceName: providers.SourceHackerNews,
		Name:       "  nameonly  ",
		Metrics:    map[string]float64{"points": 10, "comments": 3},
	})

	assert.Equal(t, "nameonly", tool.Name)
	assert.Equal(t, "nameonly", tool.Description)
	assert.Equal(t, "nameonly", tool.LongDescription)
	assert.Equal(t, FallbackCategory, tool.Category)
	assert.Equal(t, 3, tool.ReviewCount)
	assert.NotEmpty(t, tool.Tags)
	assert.NotZero(t, tool.WeeklyUsers)
}

func TestCanonicalizeUsesLongDescription(t *testing.T) {
	svc := newTestService(newFakeStore())
	tool := svc.canonicalize(&models.RawCandidate{
		SourceName:      providers.SourceGitHub,
		Name:            "codepilot",
		Description:     "AI assistant for code generation",
		LongDescription: "A longer readme excerpt about code generation",
	})

	assert.Equal(t, "Code Assistants", tool.Category)
	assert.Equal(t, "A longer readme excerpt about code generation", tool.LongDescription)
}

// Sofort fehlschlagende Quellen laufen parallel zur Registrierung der übrigen;
// jede Quelle muss trotzdem mit konsistentem Ergebnis in der Map stehen.
func TestRunRegistersAllSourcesWithInstantFailures(t *testing.T) {
	store := newFakeStore()
	var provs []providers.Provider
	for i := 0; i < 16; i++ {
		name := fmt.Sprintf("source-%d", i)
		if i%2 == 0 {
			provs = append(provs, &fakeProvider{name: name, err: errors.New("instant failure")})
			continue
		}
		provs = append(provs, &fakeProvider{
			name: name,
			candidates: []models.RawCandidate{
				candidate(name, fmt.Sprintf("tool-%d", i), "AI assistant"),
			},
		})
	}
	svc := newTestService(store, provs...)

	result, err := svc.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Sources, 16)
	for i := 0; i < 16; i++ {
		src := result.Sources[fmt.Sprintf("source-%d", i)]
		require.NotNil(t, src)
		if i%2 == 0 {
			assert.Equal(t, "instant failure", src.Error)
		} else {
			assert.Equal(t, 1, src.Found)
		}
	}
	assert.Equal(t, 8, result.Added)
}

// Bei vielen Quellen parallel darf kein Kandidat im Fan-In verloren gehen.
func TestFetchAllMergesAllSources(t *testing.T) {
	store := newFakeStore()
	var provs []providers.Provider
	for i := 0; i < 8; i++ {
		provs = append(provs, &fakeProvider{
			name: fmt.Sprintf("source-%d", i),
			candidates: []models.RawCandidate{
				candidate(fmt.Sprintf("source-%d", i), fmt.Sprintf("tool-%d", i), "AI assistant"),
			},
		})
	}
	svc := newTestService(store, provs...)

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, result.Found)
}
