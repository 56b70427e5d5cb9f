package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"botforge/internal/api"
)

// catalogModel lists the available personas, newest first as delivered by
// the backend; the client never re-sorts.
type catalogModel struct {
	bots    []api.Chatbot
	cursor  int
	mine    bool // showing only the current user's bots
	loading bool
	loadErr string // non-fatal: the list just stays empty
}

func newCatalogModel() catalogModel {
	return catalogModel{loading: true}
}

// setBots replaces the list after a fetch, clamping the cursor.
func (c *catalogModel) setBots(bots []api.Chatbot, mine bool) {
	c.bots = bots
	c.mine = mine
	c.loading = false
	c.loadErr = ""
	if c.cursor >= len(bots) {
		c.cursor = 0
	}
}

// prepend inserts a freshly created persona at the top without re-fetching
// or disturbing the rest of the list.
func (c *catalogModel) prepend(bot api.Chatbot) {
	c.bots = append([]api.Chatbot{bot}, c.bots...)
	c.cursor = 0
}

// selected returns the persona under the cursor.
func (c *catalogModel) selected() (api.Chatbot, bool) {
	if len(c.bots) == 0 || c.cursor < 0 || c.cursor >= len(c.bots) {
		return api.Chatbot{}, false
	}
	return c.bots[c.cursor], true
}

func (c *catalogModel) moveUp() {
	if c.cursor > 0 {
		c.cursor--
	}
}

func (c *catalogModel) moveDown() {
	if c.cursor < len(c.bots)-1 {
		c.cursor++
	}
}

func (c catalogModel) view(width, height int) string {
	var b strings.Builder

	heading := "Community Chatbots"
	if c.mine {
		heading = "My Chatbots"
	}
	b.WriteString(headerStyle.Render(heading))
	b.WriteString("\n\n")

	switch {
	case c.loading:
		b.WriteString(dimStyle.Render("Loading chatbots..."))
	case len(c.bots) == 0:
		b.WriteString(dimStyle.Render("No chatbots yet."))
		b.WriteString("\n\n")
		b.WriteString(titleStyle.Render("Create Your First Bot") + dimStyle.Render("  (press n)"))
	default:
		// Leave room for heading and footer.
		visible := height - 6
		if visible < 1 {
			visible = 1
		}
		start := 0
		if c.cursor >= visible {
			start = c.cursor - visible + 1
		}
		for i := start; i < len(c.bots) && i < start+visible; i++ {
			b.WriteString(c.renderEntry(i, width))
			b.WriteString("\n")
		}
	}

	if c.loadErr != "" {
		b.WriteString("\n")
		b.WriteString(statusErrStyle.Render("Could not load chatbots: " + c.loadErr))
	}

	return b.String()
}

func (c catalogModel) renderEntry(i, width int) string {
	bot := c.bots[i]
	badge := censoredBadge
	if !bot.IsCensored {
		badge = uncensoredBadge
	}

	line := fmt.Sprintf("%s %s  by %s", bot.Name, badge, bot.CreatorUsername)
	desc := bot.Description
	if width > 8 && len(desc) > width-8 {
		desc = desc[:width-8] + "…"
	}

	if i == c.cursor {
		return selectedStyle.Render("> "+line) + "\n" + lipgloss.NewStyle().PaddingLeft(2).Render(dimStyle.Render(desc))
	}
	return "  " + line + "\n" + lipgloss.NewStyle().PaddingLeft(2).Render(dimStyle.Render(desc))
}
