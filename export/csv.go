package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"ctfarena/model"
)

var header = []string{"Rank", "Team", "Score", "Solved", "Last Solve"}

// Filename is the suggested download name for a ranking export.
func Filename(name model.RankingName) string {
	return fmt.Sprintf("ctf-leaderboard-%s.csv", name)
}

// WriteCSV writes one header row and one row per entry. Fields that contain
// the delimiter, quotes or line breaks are quoted.
func WriteCSV(w io.Writer, r model.Ranking) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, e := range r.Entries {
		row := []string{
			strconv.Itoa(e.Rank),
			e.Team,
			strconv.Itoa(e.Score),
			strconv.Itoa(e.Solved),
			e.LastSolve,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
