package console

import (
	"fmt"
	"slices"
	"strings"
)

// Menu is a titled list of numbered options.
type Menu struct {
	name    string
	options map[int]string
}

func NewMenu(name string) *Menu {
	return &Menu{name: name, options: make(map[int]string)}
}

func (menu *Menu) AddOption(number int, text string) error {
	if number < 0 {
		return fmt.Errorf("menu %q: option number %d is negative", menu.name, number)
	}
	if _, exists := menu.options[number]; exists {
		return fmt.Errorf("menu %q: option %d already exists", menu.name, number)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("menu %q: option %d has no text", menu.name, number)
	}

	menu.options[number] = text
	return nil
}

// mustAddOption is for the fixed menus built at start-up.
func (menu *Menu) mustAddOption(number int, text string) {
	if err := menu.AddOption(number, text); err != nil {
		panic(err)
	}
}

func (menu *Menu) HasOption(number int) bool {
	_, ok := menu.options[number]
	return ok
}

func (menu *Menu) IsEmpty() bool {
	return len(menu.options) == 0
}

func (menu *Menu) String() string {
	numbers := make([]int, 0, len(menu.options))
	for number := range menu.options {
		numbers = append(numbers, number)
	}
	slices.Sort(numbers)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s:\n", menu.name)
	for _, number := range numbers {
		fmt.Fprintf(&sb, "%d: %s\n", number, menu.options[number])
	}
	return sb.String()
}
