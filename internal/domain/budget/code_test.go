package budget

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesizeCode(t *testing.T) {
	t.Run("AllSegmentsPresent", func(t *testing.T) {
		code, err := SynthesizeCode(Segments{
			Direction: "D1",
			Program:   "P1",
			Project:   "PRJ",
			Agreement: "AGR",
			OrgUnit:   "U1",
			Action:    "ACT",
			Account:   "6061",
			Free1:     "F1",
			Free2:     "F2",
			Free3:     "F3",
		})

		require.NoError(t, err)
		assert.Equal(t, "D1.P1.PRJ.AGR.U1.ACT.6061.F1.F2.F3", code)
	})

	t.Run("EmptySegmentsBecomePlaceholders", func(t *testing.T) {
		code, err := SynthesizeCode(Segments{
			Direction: "D1",
			Account:   "6061",
		})

		require.NoError(t, err)
		assert.Equal(t, "D1.NS.NS.NS.NS.NS.6061.NS.NS.NS", code)
	})

	t.Run("AllEmpty", func(t *testing.T) {
		code, err := SynthesizeCode(Segments{})

		require.NoError(t, err)
		assert.Equal(t, strings.Repeat("NS.", 9)+"NS", code)
	})

	t.Run("WhitespaceIsStripped", func(t *testing.T) {
		code, err := SynthesizeCode(Segments{
			Direction: "  D1 ",
			Program:   "P 1",
			Account:   "\t6061\n",
		})

		require.NoError(t, err)
		assert.Equal(t, "D1.P1.NS.NS.NS.NS.6061.NS.NS.NS", code)
	})

	t.Run("WhitespaceOnlySegmentBecomesPlaceholder", func(t *testing.T) {
		code, err := SynthesizeCode(Segments{Direction: "   "})

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(code, "NS."))
	})

	t.Run("Deterministic", func(t *testing.T) {
		segments := Segments{Direction: "D1", Program: "P1", Account: "6061"}

		first, err := SynthesizeCode(segments)
		require.NoError(t, err)
		second, err := SynthesizeCode(segments)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("TooLong", func(t *testing.T) {
		code, err := SynthesizeCode(Segments{
			Direction: strings.Repeat("A", 100),
			Program:   strings.Repeat("B", 100),
		})

		assert.Empty(t, code)
		var tooLong ErrCodeTooLong
		require.ErrorAs(t, err, &tooLong)
		assert.Greater(t, tooLong.Length, MaxCodeLength)
	})

	t.Run("ExactlyAtLimit", func(t *testing.T) {
		// 9 separators plus NS placeholders occupy 27 characters,
		// leaving 153 for the direction segment.
		code, err := SynthesizeCode(Segments{Direction: strings.Repeat("A", 153)})

		require.NoError(t, err)
		assert.Len(t, code, MaxCodeLength)
	})
}

func TestErrCodeTooLong_Message(t *testing.T) {
	err := ErrCodeTooLong{Length: 200}
	assert.Contains(t, err.Error(), "200")
	assert.Contains(t, err.Error(), "180")
	assert.False(t, errors.Is(err, ErrNegativeTotal))
}
