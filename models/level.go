package models

// PointsMap: catalog point value per item category. Unknown categories earn 1.
var PointsMap = map[string]int{
	"plastic bottle": 10,
	"e-waste":        25,
	"paper":          5,
	"metal can":      15,
	"glass":          12,
	"other":          1,
}

// PointsFor returns the catalog value for an item type, defaulting to 1.
func PointsFor(itemType string) int {
	if pts, ok := PointsMap[itemType]; ok {
		return pts
	}
	return 1
}

// Level: static catalog entry
type Level struct {
	Level     int    `json:"level"`
	Name      string `json:"name"`
	MinPoints int    `json:"min_points"`
}

// Levels is ordered ascending by MinPoints.
var Levels = []Level{
	{Level: 1, Name: "Eco Rookie", MinPoints: 0},
	{Level: 2, Name: "Green Starter", MinPoints: 101},
	{Level: 3, Name: "Waste Warrior", MinPoints: 251},
	{Level: 4, Name: "Planet Protector", MinPoints: 501},
	{Level: 5, Name: "Eco Champion", MinPoints: 1001},
}

// LevelForPoints returns the level whose MinPoints is the largest value not
// exceeding points. Points are never negative, so the lowest tier is the floor.
func LevelForPoints(points int) Level {
	for i := len(Levels) - 1; i >= 0; i-- {
		if points >= Levels[i].MinPoints {
			return Levels[i]
		}
	}
	if len(Levels) == 0 {
		panic("level catalog is empty") // fatal configuration error
	}
	return Levels[0]
}
