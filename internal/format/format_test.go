package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrice(t *testing.T) {
	t.Parallel()

	cases := map[int64]string{
		0:       "$0",
		89:      "$89",
		1290:    "$1,290",
		1234567: "$1,234,567",
		-45:     "-$45",
	}
	for in, want := range cases {
		require.Equal(t, want, Price(in), "Price(%d)", in)
	}
	require.Equal(t, "12,000", Number(12000))
}

func TestStars(t *testing.T) {
	t.Parallel()

	require.Equal(t, "★★★★☆", Stars(4))
	require.Equal(t, "★★★★★", Stars(9))
	require.Equal(t, "☆☆☆☆☆", Stars(-1))
}

func TestMarkdown(t *testing.T) {
	t.Parallel()

	out := string(Markdown("Deep *space* hues with **gold** legends."))
	require.Contains(t, out, "<em>space</em>")
	require.Contains(t, out, "<strong>gold</strong>")

	out = string(Markdown("hi <script>alert(1)</script>"))
	require.NotContains(t, out, "<script")
}

func TestPlainText(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Deep space & gold.", PlainText("Deep *space* &\n\n**gold**."))
}
