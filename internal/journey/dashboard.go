package journey

import "time"

// PendingItem summarizes an incomplete journey.
type PendingItem struct {
	ID              string     `json:"id"`
	ProductName     string     `json:"product_name"`
	ReviewExcerpt   string     `json:"review_excerpt"`
	CurrentRound    int        `json:"current_round"`
	AngerScore      float64    `json:"anger_score"`
	NextSessionDate *time.Time `json:"next_session_date,omitempty"`
	Due             bool       `json:"due"`
}

// CompletedItem summarizes a finished journey.
type CompletedItem struct {
	ID           string   `json:"id"`
	ProductName  string   `json:"product_name"`
	Rounds       int      `json:"rounds"`
	InitialScore *float64 `json:"initial_score,omitempty"`
	FinalScore   float64  `json:"final_score"`
}

// Dashboard splits the collection into pending and completed journeys,
// each in stored order.
type Dashboard struct {
	Pending   []PendingItem   `json:"pending"`
	Completed []CompletedItem `json:"completed"`
}

// excerptLen is how much of a review comment a dashboard shows.
const excerptLen = 100

// Summarize builds the dashboard view of journeys as of now.
func Summarize(journeys []Journey, now time.Time) Dashboard {
	d := Dashboard{Pending: []PendingItem{}, Completed: []CompletedItem{}}
	for i := range journeys {
		j := &journeys[i]
		if j.Completed {
			item := CompletedItem{
				ID:          j.ID,
				ProductName: j.ProductName,
				Rounds:      j.Rounds(),
				FinalScore:  j.AngerScore,
			}
			if initial, ok := j.InitialScore(); ok {
				item.InitialScore = &initial
			}
			d.Completed = append(d.Completed, item)
			continue
		}
		d.Pending = append(d.Pending, PendingItem{
			ID:              j.ID,
			ProductName:     j.ProductName,
			ReviewExcerpt:   Excerpt(j.ReviewComment, excerptLen),
			CurrentRound:    j.CurrentSessionNumber,
			AngerScore:      j.AngerScore,
			NextSessionDate: j.NextSessionDate,
			Due:             j.Due(now),
		})
	}
	return d
}

// Excerpt truncates s to at most n runes, appending "..." when cut.
func Excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
