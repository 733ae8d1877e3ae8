package colors

// kanagawa palette shared by the wave, dragon and lotus presets
var palette = struct {
	sumiInk1, sumiInk3, sumiInk4, sumiInk6   string
	waveBlue1, waveAqua2                     string
	winterBlue, winterYellow, winterRed      string
	samuraiRed, roninYellow, dragonBlue      string
	fujiWhite, fujiGray, oniViolet           string
	crystalBlue, springGreen, peachRed       string
	dragonBlack1, dragonBlack4, dragonBlack6 string
	dragonWhite, dragonGreen2, dragonBlue2   string
	dragonViolet, dragonRed, dragonAqua      string
	dragonAsh                                string
	lotusInk1, lotusWhite0, lotusWhite3      string
	lotusViolet1, lotusViolet4               string
	lotusBlue1, lotusBlue2, lotusBlue4       string
	lotusGreen, lotusRed, lotusRed3          string
	lotusRed4, lotusAqua, lotusGray3         string
	lotusTeal3, lotusOrange2, lotusYellow4   string
}{
	sumiInk1: "#181820", sumiInk3: "#1F1F28", sumiInk4: "#2A2A37", sumiInk6: "#54546D",
	waveBlue1: "#223249", waveAqua2: "#7AA89F",
	winterBlue: "#252535", winterYellow: "#49443C", winterRed: "#43242B",
	samuraiRed: "#E82424", roninYellow: "#FF9E3B", dragonBlue: "#658594",
	fujiWhite: "#DCD7BA", fujiGray: "#727169", oniViolet: "#957FB8",
	crystalBlue: "#7E9CD8", springGreen: "#98BB6C", peachRed: "#FF5D62",
	dragonBlack1: "#12120F", dragonBlack4: "#282727", dragonBlack6: "#625E5A",
	dragonWhite: "#C5C9C5", dragonGreen2: "#8A9A7B", dragonBlue2: "#8BA4B0",
	dragonViolet: "#8992A7", dragonRed: "#C4746E", dragonAqua: "#8EA4A2",
	dragonAsh: "#737C73",
	lotusInk1: "#545464", lotusWhite0: "#D5CEA3", lotusWhite3: "#F2ECBC",
	lotusViolet1: "#A09CAC", lotusViolet4: "#624C83",
	lotusBlue1: "#C7D7E0", lotusBlue2: "#B5CBD2", lotusBlue4: "#4D699B",
	lotusGreen: "#6F894E", lotusRed: "#C84053", lotusRed3: "#E82424",
	lotusRed4: "#D9A594", lotusAqua: "#597B75", lotusGray3: "#8A8980",
	lotusTeal3: "#5A7785", lotusOrange2: "#E98A00", lotusYellow4: "#F9D791",
}
