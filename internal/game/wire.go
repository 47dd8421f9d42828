package game

// The projections below copy every slice so a snapshot can leave the lock
// and be serialized while the room keeps changing.

func playerView(p *Player) PlayerView {
	guesses := make([]string, len(p.Guesses))
	copy(guesses, p.Guesses)
	rounds := []int{}
	if p.RoundGuesses != nil {
		rounds = p.RoundGuesses.Values()
	}
	return PlayerView{
		Name:         p.Name,
		IDNumber:     p.IDNumber,
		IsHost:       p.IsHost,
		Guesses:      guesses,
		RoundGuesses: rounds,
		Score:        p.Score,
	}
}

func playerViews(players []*Player) []PlayerView {
	out := make([]PlayerView, 0, len(players))
	for _, p := range players {
		out = append(out, playerView(p))
	}
	return out
}

func (r *Room) snapshotLocked() RoomSnapshot {
	activities := make([]Activity, len(r.activities))
	for i, a := range r.activities {
		if a.Metadata != nil {
			md := make(map[string]string, len(a.Metadata))
			for k, v := range a.Metadata {
				md[k] = v
			}
			a.Metadata = md
		}
		activities[i] = a
	}
	return RoomSnapshot{
		Code:       r.Code,
		Host:       playerView(r.host),
		Players:    playerViews(r.players),
		Words:      r.words.Values(),
		WordIndex:  r.wordIndex,
		Status:     r.status,
		Activities: activities,
		CreatedAt:  r.createdAt,
	}
}
