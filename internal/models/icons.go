package models

import "strings"

// IconCategory groups icon names for the picker.
type IconCategory struct {
	Name  string
	Icons []string
}

// NamedColor is a palette entry offered by the add-habit form.
type NamedColor struct {
	Name string
	Hex  string
}

var IconCategories = []IconCategory{
	{Name: "Learning", Icons: []string{
		"book.fill", "books.vertical.fill", "text.book.closed.fill", "pencil", "highlighter",
		"newspaper.fill", "keyboard.fill", "lightbulb.fill", "graduationcap.fill",
	}},
	{Name: "Lifestyle", Icons: []string{
		"house.fill", "cart.fill", "dollarsign.circle.fill", "gift.fill", "person.2.fill",
		"phone.fill", "mail.fill", "music.note", "theatermasks.fill",
	}},
	{Name: "Fitness", Icons: []string{
		"figure.run", "figure.walk", "figure.hiking", "figure.dance",
		"figure.strengthtraining.functional", "dumbbell.fill", "figure.mind.and.body",
		"figure.boxing", "figure.basketball",
	}},
	{Name: "Health", Icons: []string{
		"heart.fill", "pills.fill", "cross.fill", "bed.double.fill", "lungs.fill",
		"brain.head.profile", "leaf.fill", "allergens", "wineglass.fill",
	}},
	{Name: "Productivity", Icons: []string{
		"checklist", "calendar", "clock.fill", "briefcase.fill", "folder.fill",
		"chart.bar.fill", "list.bullet", "target", "flag.fill",
	}},
}

var Palette = []NamedColor{
	{Name: "Blue", Hex: "#0000FF"},
	{Name: "Purple", Hex: "#AF52DE"},
	{Name: "Pink", Hex: "#FF69B4"},
	{Name: "Red", Hex: "#FF0000"},
	{Name: "Orange", Hex: "#FF9500"},
	{Name: "Yellow", Hex: "#FFCC00"},
	{Name: "Green", Hex: "#34C759"},
}

// FilterIcons returns the categories containing icons that match query,
// case-insensitively. Empty categories are dropped.
func FilterIcons(query string) []IconCategory {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return IconCategories
	}
	var out []IconCategory
	for _, c := range IconCategories {
		var icons []string
		for _, icon := range c.Icons {
			if strings.Contains(strings.ToLower(icon), query) {
				icons = append(icons, icon)
			}
		}
		if len(icons) > 0 {
			out = append(out, IconCategory{Name: c.Name, Icons: icons})
		}
	}
	return out
}

// AllIcons returns every icon name in catalogue order.
func AllIcons() []string {
	var out []string
	for _, c := range IconCategories {
		out = append(out, c.Icons...)
	}
	return out
}
