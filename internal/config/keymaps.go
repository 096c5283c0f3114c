package config

// KeyMappings defines all configurable key bindings
type KeyMappings struct {
	// Cards
	AddCard       string `yaml:"add_card"`
	ViewCard      string `yaml:"view_card"`
	MoveCardLeft  string `yaml:"move_card_left"`
	MoveCardRight string `yaml:"move_card_right"`
	MoveCardUp    string `yaml:"move_card_up"`
	MoveCardDown  string `yaml:"move_card_down"`

	// Columns
	MoveColumnLeft  string `yaml:"move_column_left"`
	MoveColumnRight string `yaml:"move_column_right"`

	// Navigation
	PrevColumn string `yaml:"prev_column"`
	NextColumn string `yaml:"next_column"`
	PrevCard   string `yaml:"prev_card"`
	NextCard   string `yaml:"next_card"`

	// Other
	ToggleLanguage string `yaml:"toggle_language"`
	ShowHelp       string `yaml:"show_help"`
	Quit           string `yaml:"quit"`
}

// DefaultKeyMappings returns the default key mappings
func DefaultKeyMappings() KeyMappings {
	return KeyMappings{
		AddCard:       "a",
		ViewCard:      "enter",
		MoveCardLeft:  "H",
		MoveCardRight: "L",
		MoveCardUp:    "K",
		MoveCardDown:  "J",

		MoveColumnLeft:  "<",
		MoveColumnRight: ">",

		PrevColumn: "h",
		NextColumn: "l",
		PrevCard:   "k",
		NextCard:   "j",

		ToggleLanguage: "t",
		ShowHelp:       "?",
		Quit:           "q",
	}
}

// applyDefaults fills in missing key mappings with defaults
func (k *KeyMappings) applyDefaults() {
	defaults := DefaultKeyMappings()

	if k.AddCard == "" {
		k.AddCard = defaults.AddCard
	}
	if k.ViewCard == "" {
		k.ViewCard = defaults.ViewCard
	}
	if k.MoveCardLeft == "" {
		k.MoveCardLeft = defaults.MoveCardLeft
	}
	if k.MoveCardRight == "" {
		k.MoveCardRight = defaults.MoveCardRight
	}
	if k.MoveCardUp == "" {
		k.MoveCardUp = defaults.MoveCardUp
	}
	if k.MoveCardDown == "" {
		k.MoveCardDown = defaults.MoveCardDown
	}
	if k.MoveColumnLeft == "" {
		k.MoveColumnLeft = defaults.MoveColumnLeft
	}
	if k.MoveColumnRight == "" {
		k.MoveColumnRight = defaults.MoveColumnRight
	}
	if k.PrevColumn == "" {
		k.PrevColumn = defaults.PrevColumn
	}
	if k.NextColumn == "" {
		k.NextColumn = defaults.NextColumn
	}
	if k.PrevCard == "" {
		k.PrevCard = defaults.PrevCard
	}
	if k.NextCard == "" {
		k.NextCard = defaults.NextCard
	}
	if k.ToggleLanguage == "" {
		k.ToggleLanguage = defaults.ToggleLanguage
	}
	if k.ShowHelp == "" {
		k.ShowHelp = defaults.ShowHelp
	}
	if k.Quit == "" {
		k.Quit = defaults.Quit
	}
}
