package colors

// Dragon returns the Kanagawa Dragon color scheme (dark theme with warm earth tones)
func Dragon() *ColorScheme {
	return &ColorScheme{
		Preset: "dragon",

		Accent:     palette.dragonViolet,
		Background: palette.dragonBlack1,

		Create: palette.dragonGreen2,
		Edit:   palette.dragonBlue2,
		Delete: palette.dragonRed,

		Border:         palette.dragonBlack6,
		SelectedBorder: palette.dragonAqua,
		SelectedBg:     palette.dragonBlack4,

		Title:  palette.dragonBlue2,
		Subtle: palette.dragonAsh,
		Normal: palette.dragonWhite,

		InfoFg:    palette.dragonBlue,
		InfoBg:    palette.winterBlue,
		WarningFg: palette.roninYellow,
		WarningBg: palette.winterYellow,
		ErrorFg:   palette.samuraiRed,
		ErrorBg:   palette.winterRed,

		StatusBarBg:   palette.dragonViolet, // Matches accent
		StatusBarText: palette.dragonWhite,  // Matches normal text
	}
}
