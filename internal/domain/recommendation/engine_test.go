package recommendation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"drycleaning/internal/domain/catalog"
)

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) LookupIssues(ctx context.Context, codes []string) ([]catalog.Issue, error) {
	args := m.Called(ctx, codes)
	issues, _ := args.Get(0).([]catalog.Issue)
	return issues, args.Error(1)
}

func (m *mockCatalog) ModifiersForCategory(ctx context.Context, categoryCode string) ([]catalog.ModifierDefinition, error) {
	args := m.Called(ctx, categoryCode)
	mods, _ := args.Get(0).([]catalog.ModifierDefinition)
	return mods, args.Error(1)
}

func stain(code string, level catalog.RiskLevel) catalog.Issue {
	return catalog.Issue{Kind: catalog.IssueStain, IssueAttributes: catalog.IssueAttributes{Code: code, Name: code, RiskLevel: level}}
}

func defect(code string, level catalog.RiskLevel) catalog.Issue {
	return catalog.Issue{Kind: catalog.IssueDefect, IssueAttributes: catalog.IssueAttributes{Code: code, Name: code, RiskLevel: level}}
}

func textileModifiers() []catalog.ModifierDefinition {
	return []catalog.ModifierDefinition{
		{Code: "MANUAL_CLEANING", Name: "Ручна чистка", Scope: catalog.ScopeTextile},
		{Code: "VERY_DIRTY", Name: "Дуже забруднені речі", Scope: catalog.ScopeTextile},
	}
}

func TestRecommend_DedupKeepsHighestPriority(t *testing.T) {
	cfg := DefaultConfig()

	recs := cfg.Recommend([]catalog.Issue{
		stain("sweat", catalog.RiskLow),
		stain("blood", catalog.RiskHigh),
		stain("coffee", catalog.RiskMedium),
	}, textileModifiers())

	require.Len(t, recs, 2)
	assert.Equal(t, "MANUAL_CLEANING", recs[0].ModifierCode)
	assert.Equal(t, PriorityHigh, recs[0].Priority)
	assert.Equal(t, "VERY_DIRTY", recs[1].ModifierCode)
	assert.Equal(t, PriorityHigh, recs[1].Priority)
	require.NotNil(t, recs[1].SuggestedValue)
	assert.Equal(t, "70", recs[1].SuggestedValue.String())
	assert.Equal(t, []string{"sweat", "blood", "coffee"}, recs[1].IssueCodes)
}

func TestRecommend_FiltersIncompatibleModifiers(t *testing.T) {
	cfg := DefaultConfig()

	// Leather items only get leather and general modifiers, so the textile candidates drop out.
	recs := cfg.Recommend([]catalog.Issue{stain("blood", catalog.RiskHigh), defect("torn", catalog.RiskMedium)}, []catalog.ModifierDefinition{
		{Code: "MANUAL_LEATHER_CLEANING", Scope: catalog.ScopeLeather},
	})
	assert.Empty(t, recs)
}

func TestRecommend_DefectsAndRisks(t *testing.T) {
	cfg := DefaultConfig()

	recs := cfg.Recommend([]catalog.Issue{
		defect("worn", catalog.RiskLow),
		{Kind: catalog.IssueRisk, IssueAttributes: catalog.IssueAttributes{Code: "color_change_risk", RiskLevel: catalog.RiskHigh}},
		defect("holes", catalog.RiskMedium),
	}, textileModifiers())

	require.Len(t, recs, 1)
	assert.Equal(t, "MANUAL_CLEANING", recs[0].ModifierCode)
	assert.Equal(t, PriorityMedium, recs[0].Priority)
	assert.Nil(t, recs[0].SuggestedValue)
}

func TestWarnings_OnePerHighRiskIssue(t *testing.T) {
	warnings := Warnings([]catalog.Issue{
		stain("blood", catalog.RiskHigh),
		stain("dust", catalog.RiskLow),
		defect("structural_damage", catalog.RiskHigh),
	})

	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "stain")
	assert.Contains(t, warnings[1], "defect")
}

func TestEngine_Advise(t *testing.T) {
	src := new(mockCatalog)
	ctx := context.Background()
	codes := []string{"blood"}

	src.On("LookupIssues", ctx, codes).Return([]catalog.Issue{stain("blood", catalog.RiskHigh)}, nil).Once()
	src.On("ModifiersForCategory", ctx, "CLOTHING").Return(textileModifiers(), nil).Once()

	engine := NewEngine(DefaultConfig(), src, src)
	advice, err := engine.Advise(ctx, codes, "CLOTHING")
	require.NoError(t, err)

	assert.Len(t, advice.Recommendations, 2)
	assert.Len(t, advice.Warnings, 1)
	src.AssertExpectations(t)
}

func TestEngine_RecommendPropagatesLookupErrors(t *testing.T) {
	src := new(mockCatalog)
	ctx := context.Background()
	codes := []string{"nope"}

	src.On("LookupIssues", ctx, codes).Return(nil, catalog.ErrUnknownIssue)

	engine := NewEngine(DefaultConfig(), src, src)
	_, err := engine.Recommend(ctx, codes, "CLOTHING")
	assert.True(t, errors.Is(err, catalog.ErrUnknownIssue))
	src.AssertNotCalled(t, "ModifiersForCategory", mock.Anything, mock.Anything)
}

func TestEngine_EmptySelectionSkipsLookups(t *testing.T) {
	src := new(mockCatalog)
	engine := NewEngine(DefaultConfig(), src, src)

	recs, err := engine.Recommend(context.Background(), nil, "CLOTHING")
	require.NoError(t, err)
	assert.Empty(t, recs)
	src.AssertExpectations(t)
}
