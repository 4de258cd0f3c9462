package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestTag(t *testing.T) {
	for _, label := range []string{"FAIL", "WARN", "SKIP", "OK"} {
		t.Run(label, func(t *testing.T) {
			got := Tag(label)
			if !strings.Contains(got, label) {
				t.Errorf("Tag(%q) = %q, missing label", label, got)
			}
			if w := lipgloss.Width(got); w != 4 {
				t.Errorf("Tag(%q) width = %d, want 4", label, w)
			}
		})
	}
}
