package dal

import (
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/models"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/units"
)

var ip = models.IntPtr

func getDefaultPlayers() []models.Player {
	h := units.MustHeightToCm
	return []models.Player{
		{ID: 1, Name: "JJ Johnson", Position: "wrdb", Height: h("6-2"), Weight: 195, Speed: 98, RouteRunning: 90, PassDefense: 88, Tackling: 81, ADP: 9,
			Stats: models.Stats{RecYards: ip(412), RecTDs: ip(6), Rec: ip(27)}, TeamID: ip(2), AnytimeTD: ip(120)},
		{ID: 2, Name: "Cameron Norfleet", Position: "wrdb", Height: h("6-1"), Weight: 195, Speed: 93, RouteRunning: 96, PassDefense: 87, Tackling: 78, ADP: 1,
			Stats: models.Stats{RecYards: ip(538), RecTDs: ip(8), Rec: ip(34)}, TeamID: ip(1), AnytimeTD: ip(-110)},
		{ID: 3, Name: "Rob Byers", Position: "wrdb", Height: h("5-9"), Weight: 195, Speed: 88, RouteRunning: 90, PassDefense: 88, Tackling: 81, ADP: 17,
			TeamID: ip(4)},
		{ID: 4, Name: "Evan Dodigon", Position: "wrdb", Height: h("6-1"), Weight: 195, Speed: 92, RouteRunning: 91, PassDefense: 86, Tackling: 88, ADP: 5,
			Stats: models.Stats{RecYards: ip(301), RecTDs: ip(3), Rec: ip(22)}, TeamID: ip(1), AnytimeTD: ip(220)},
		{ID: 5, Name: "Nick Fridel", Position: "dete", Height: h("6-4"), Weight: 215, Speed: 85, RouteRunning: 80, PassDefense: 83, Tackling: 91, ADP: 8,
			Stats: models.Stats{RecYards: ip(188), RecTDs: ip(2), Rec: ip(14)}, TeamID: ip(3), AnytimeTD: ip(300)},
		{ID: 6, Name: "Garret Meyer", Position: "qblbrbrwrdb", Height: h("5-10"), Weight: 180, Speed: 93, RouteRunning: 96, PassDefense: 87, Tackling: 78, ADP: 0,
			Stats: models.Stats{PassYds: ip(644), PassTDs: ip(7), RushYds: ip(152), RushTDs: ip(2)}, TeamID: ip(4), AnytimeTD: ip(150)},
		{ID: 7, Name: "Justin Locklear", Position: "qblb", Height: h("6-2"), Weight: 210, Speed: 88, RouteRunning: 90, PassDefense: 82, Tackling: 81, ADP: 0,
			Stats: models.Stats{PassYds: ip(702), PassTDs: ip(9), RushYds: ip(48), RushTDs: ip(1)}, TeamID: ip(2), AnytimeTD: ip(180)},
		{ID: 8, Name: "Justin Catson", Position: "wrlb", Height: h("6-0"), Weight: 195, Speed: 84, RouteRunning: 83, PassDefense: 82, Tackling: 78, ADP: 13,
			TeamID: ip(3)},
		{ID: 9, Name: "Taylor Nanato", Position: "wrlb", Height: h("5-10"), Weight: 195, Speed: 88, RouteRunning: 83, PassDefense: 88, Tackling: 81, ADP: 12,
			Stats: models.Stats{RecYards: ip(96), Rec: ip(9)}, TeamID: ip(1)},
		{ID: 10, Name: "Arman", Position: "wrdb", Height: h("6-1"), Weight: 195, Speed: 89, RouteRunning: 89, PassDefense: 87, Tackling: 78, ADP: 8,
			TeamID: ip(2)},
		{ID: 11, Name: "Tyler Huang", Position: "wrdb", Height: h("6-2"), Weight: 195, Speed: 86, RouteRunning: 84, PassDefense: 91, Tackling: 86, ADP: 6,
			Stats: models.Stats{RecYards: ip(254), RecTDs: ip(3), Rec: ip(19)}, TeamID: ip(3)},
		{ID: 12, Name: "Kinan Alatasi", Position: "wrdb", Height: h("6-1"), Weight: 195, Speed: 85, RouteRunning: 84, PassDefense: 87, Tackling: 78, ADP: 3,
			TeamID: ip(4)},
		{ID: 13, Name: "Malek Alatasi", Position: "wrdb", Height: h("6-2"), Weight: 195, Speed: 90, RouteRunning: 83, PassDefense: 84, Tackling: 85, ADP: 0,
			TeamID: ip(1)},
		{ID: 14, Name: "Trevor Kheone", Position: "wrdb", Height: h("6-1"), Weight: 195, Speed: 94, RouteRunning: 76, PassDefense: 78, Tackling: 78, ADP: 17,
			TeamID: ip(2)},
		{ID: 15, Name: "Mcelfresh", Position: "wrdb", Height: h("5-10"), Weight: 183, Speed: 92, RouteRunning: 83, PassDefense: 82, Tackling: 81, ADP: 13,
			TeamID: ip(3)},
		{ID: 16, Name: "Claudio Rodriguez", Position: "wrdb", Height: h("5-11"), Weight: 195, Speed: 86, RouteRunning: 91, PassDefense: 87, Tackling: 78, ADP: 9,
			TeamID: ip(4)},
	}
}

func getDefaultTeams() []models.Team {
	return []models.Team{
		{ID: 1, Name: "Team A", Captain: "2", Odds: -150},
		{ID: 2, Name: "Team B", Captain: "7", Odds: 120},
		{ID: 3, Name: "Team C", Captain: "5", Odds: 200},
		{ID: 4, Name: "Team D", Captain: "6", Odds: 350},
	}
}

func getDefaultStandings() []models.Standing {
	return []models.Standing{
		{Name: "John Doe", Wins: 5, Losses: 1},
		{Name: "Jane Smith", Wins: 4, Losses: 2},
		{Name: "Bob Johnson", Wins: 3, Losses: 3},
	}
}
