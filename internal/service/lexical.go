package service

import (
	"math"
	"regexp"
	"strings"
)

var (
	unicodeWordRe = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’][\p{L}\p{N}]+)*`)
)

// minArtistOverlap is the lowest Ochiai score accepted when resolving a name.
const minArtistOverlap = 0.5

// closestArtist returns the artist whose name shares the most tokens with
// query, or "" when nothing overlaps enough. Ties keep catalog order.
func closestArtist(query string, artists []string) (string, float64) {
	qset := toTokenSet(query)
	best, bestScore := "", 0.0
	for _, a := range artists {
		if score := overlapOchiai(qset, a); score > bestScore {
			best, bestScore = a, score
		}
	}
	if bestScore < minArtistOverlap {
		return "", 0
	}
	return best, bestScore
}

func toTokenSet(s string) map[string]struct{} {
	tokens := unicodeWordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

func overlapOchiai(qset map[string]struct{}, text string) float64 {
	seen := toTokenSet(text)
	if len(qset) == 0 || len(seen) == 0 {
		return 0
	}
	inter := 0
	for t := range seen {
		if _, ok := qset[t]; ok {
			inter++
		}
	}
	// Ochiai coefficient: |A∩B| / sqrt(|A||B|)
	return float64(inter) / math.Sqrt(float64(len(qset))*float64(len(seen)))
}
