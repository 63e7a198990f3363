package buoy

// beaufortStep is one row of the Beaufort scale: UpperBoundMS is the
// fastest wind speed (m/s) still classified at this force.
type beaufortStep struct {
	Force          int
	UpperBoundMS   float64
	Name           string
	SeaDescription string
}

// beaufortTable is monotone in UpperBoundMS; classifyBeaufort returns the
// first step whose bound the speed doesn't exceed.
var beaufortTable = []beaufortStep{
	{0, 0.5, "Calm", "Sea like a mirror"},
	{1, 1.5, "Light air", "Ripples without crests"},
	{2, 3.3, "Light breeze", "Small wavelets, crests do not break"},
	{3, 5.5, "Gentle breeze", "Large wavelets, crests begin to break"},
	{4, 7.9, "Moderate breeze", "Small waves, fairly frequent white horses"},
	{5, 10.7, "Fresh breeze", "Moderate waves, many white horses"},
	{6, 13.8, "Strong breeze", "Large waves, white foam crests, some spray"},
	{7, 17.1, "Near gale", "Sea heaps up, foam blown in streaks"},
	{8, 20.7, "Gale", "Moderately high waves, foam blown in well-marked streaks"},
	{9, 24.4, "Strong gale", "High waves, dense foam, spray affects visibility"},
	{10, 28.4, "Storm", "Very high waves, overhanging crests, visibility reduced"},
	{11, 32.6, "Violent storm", "Exceptionally high waves, sea covered in foam patches"},
	{12, 999, "Hurricane force", "Air filled with foam and spray, sea completely white"},
}

// classifyBeaufort returns the Beaufort category for a wind speed in
// meters per second.
func classifyBeaufort(speedMS float64) Beaufort {
	for _, step := range beaufortTable {
		if speedMS <= step.UpperBoundMS {
			return Beaufort{Force: step.Force, Name: step.Name, SeaDescription: step.SeaDescription}
		}
	}
	last := beaufortTable[len(beaufortTable)-1]
	return Beaufort{Force: last.Force, Name: last.Name, SeaDescription: last.SeaDescription}
}
