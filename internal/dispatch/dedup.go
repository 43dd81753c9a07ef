package dispatch

import "github.com/mecalink/admin-gateway/internal/domain"

// LatestPerUser keeps the most recent checklist of each user, by date then
// time of day. Users come out in the order they are first seen. Checklists
// without a user are dropped.
func LatestPerUser(checklists []domain.Checklist) []domain.Checklist {
	index := make(map[string]int)
	var out []domain.Checklist

	for _, c := range checklists {
		uid := c.UserID()
		if uid == "" {
			continue
		}

		i, seen := index[uid]
		if !seen {
			index[uid] = len(out)
			out = append(out, c)
			continue
		}
		if out[i].Before(c) {
			out[i] = c
		}
	}

	return out
}
