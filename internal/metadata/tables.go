package metadata

import "regexp"

// The scan tables below are evaluated in declared order with first match
// winning; the order is a deliberate priority, not alphabetical. Keeping the
// data out of branching code keeps that priority auditable.

// carModels lists Kia model names, highest priority first.
var carModels = []string{
	"EV6", "EV9", "Niro", "Soul", "Sportage", "Sorento",
	"Carnival", "Seltos", "K5", "K8", "Stinger", "Telluride",
	"K3", "Mohave", "Ray", "Morning", "Picanto",
}

// carTypes lists body styles.
var carTypes = []string{
	"SUV", "Sedan", "Electric", "Hybrid", "MPV", "Hatchback",
	"Crossover", "Minivan",
}

// xevEntry maps a propulsion term to its xev column label. Terms that imply
// no electrification map to the empty null marker.
type xevEntry struct {
	Term  string
	Label string
}

// xevTable: longer, more specific terms come first so "Plug-in Hybrid" is not
// shadowed by "Hybrid", and "Hybrid" not by the "EV" substring of "EV6".
var xevTable = []xevEntry{
	{"Plug-in Hybrid", "PHEV"},
	{"PHEV", "PHEV"},
	{"Battery Electric", "BEV"},
	{"Hybrid", "HEV"},
	{"HEV", "HEV"},
	{"Electric", "BEV"},
	{"BEV", "BEV"},
}

// pricePatterns are tried in order; the first pattern that matches wins.
var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{1,3}(?:,\d{3})*)\s*만?\s*원`), // 3,000만원 or 3000원
	regexp.MustCompile(`(\d{1,3}(?:,\d{3})*)\s*천만원`),
	regexp.MustCompile(`\$\s*(\d{1,3}(?:,\d{3})*)`),
}

// featureKeywords flag sentences worth surfacing as features.
var featureKeywords = []string{
	"안전", "편의", "퍼포먼스", "디자인", "연비", "주행",
	"시스템", "기술", "Safety", "Convenience", "Performance",
	"Design", "Efficiency", "Technology", "Smart", "Advanced",
}

// stopWords are excluded from keyword frequency counting.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "or": {}, "is": {}, "in": {}, "at": {}, "to": {}, "of": {},
	"입니다": {}, "있습니다": {}, "합니다": {}, "하는": {}, "되는": {},
}

// specPatterns extract labeled technical spec values, capped at five results.
var specPatterns = []*regexp.Regexp{
	regexp.MustCompile(`배터리\s*:\s*([^\n]+)`),
	regexp.MustCompile(`모터\s*:\s*([^\n]+)`),
	regexp.MustCompile(`출력\s*:\s*([^\n]+)`),
	regexp.MustCompile(`토크\s*:\s*([^\n]+)`),
	regexp.MustCompile(`(?i)Battery\s*:\s*([^\n]+)`),
	regexp.MustCompile(`(?i)Motor\s*:\s*([^\n]+)`),
	regexp.MustCompile(`(?i)Power\s*:\s*([^\n]+)`),
}

// wordPattern tokenizes Korean and Latin words of two or more characters.
var wordPattern = regexp.MustCompile(`[가-힣a-zA-Z]{2,}`)

// yearPattern finds model-year candidates for the year-range columns.
var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)
