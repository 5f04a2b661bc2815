package moderation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestModerator(t *testing.T) *Moderator {
	t.Helper()
	moderator, err := NewModerator([]string{"badword", "slur", "gredin"}, '*')
	require.NoError(t, err)
	return moderator
}

func TestModerator_Censor_ReplacesForbiddenWord(t *testing.T) {
	req := require.New(t)
	moderator := newTestModerator(t)

	censored, found := moderator.Censor("this is a badword in a sentence")

	req.Equal("this is a ******* in a sentence", censored)
	req.Equal([]string{"badword"}, found)
}

func TestModerator_Censor_LeavesCleanTextUntouched(t *testing.T) {
	req := require.New(t)
	moderator := newTestModerator(t)

	censored, found := moderator.Censor("a perfectly polite message")

	req.Equal("a perfectly polite message", censored)
	req.Empty(found)
}

func TestModerator_Censor_IsCaseInsensitive(t *testing.T) {
	req := require.New(t)
	moderator := newTestModerator(t)

	censored, found := moderator.Censor("BadWord!")

	req.Equal("*******!", censored)
	req.Len(found, 1)
}

func TestModerator_Censor_DefeatsSpacingEvasion(t *testing.T) {
	req := require.New(t)
	moderator := newTestModerator(t)

	// Separator characters inside the word do not hide it
	censored, found := moderator.Censor("b a d w o r d")

	req.Len(found, 1)
	req.NotContains(censored, "b a d w o r d")
}

func TestModerator_Censor_MultipleMatches(t *testing.T) {
	req := require.New(t)
	moderator := newTestModerator(t)

	_, found := moderator.Censor("badword and slur and gredin")

	req.Len(found, 3)
}

func TestModerator_Censor_EmptyInput(t *testing.T) {
	req := require.New(t)
	moderator := newTestModerator(t)

	censored, found := moderator.Censor("")

	req.Empty(censored)
	req.Empty(found)
}

func TestLoadEmbedded_ProvidesWordsPerLanguage(t *testing.T) {
	req := require.New(t)

	data, err := LoadEmbedded()

	req.NoError(err)
	req.NotEmpty(data.Words)
	req.Contains(data.Languages, "en")
	req.Contains(data.Languages, "fr")
}
