package debate

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"dev.helix.debate/internal/metrics"
	"dev.helix.debate/internal/models"
)

const (
	// maxKeyPoints caps how many query terms are extracted from a turn.
	maxKeyPoints = 3
	// maxCitationsPerTurn caps how many citations get attached to a turn.
	maxCitationsPerTurn = 2
	// defaultEvidenceTimeout bounds how long a lookup may delay turn production.
	defaultEvidenceTimeout = 10 * time.Second
)

// Key-point extraction rules: quoted spans, topic-marker suffixes, and
// outcome/impact suffixes.
var keyPointPatterns = []*regexp.Regexp{
	regexp.MustCompile(`「([^」]+)」`),
	regexp.MustCompile(`(\S+(?:について|に関して|における))`),
	regexp.MustCompile(`(\S+(?:効果|影響|問題|課題|利益|リスク))`),
}

// Searcher is the evidence-search collaborator interface the attacher consumes.
type Searcher interface {
	Search(ctx context.Context, query models.EvidenceQuery) ([]models.Evidence, error)
}

// EvidenceAttacher enriches a generated turn with zero or more citations.
// Evidence is strictly best-effort: every failure resolves to an empty list.
type EvidenceAttacher struct {
	searcher Searcher
	logger   *logrus.Logger
	timeout  time.Duration
}

// NewEvidenceAttacher creates an attacher over the given search collaborator.
// A zero timeout uses the 10 second default.
func NewEvidenceAttacher(searcher Searcher, logger *logrus.Logger, timeout time.Duration) *EvidenceAttacher {
	if logger == nil {
		logger = logrus.New()
	}
	if timeout <= 0 {
		timeout = defaultEvidenceTimeout
	}
	return &EvidenceAttacher{
		searcher: searcher,
		logger:   logger,
		timeout:  timeout,
	}
}

// Attach extracts salient query terms from content and fetches supporting
// citations. It never returns an error; a failed or empty lookup yields nil.
func (a *EvidenceAttacher) Attach(ctx context.Context, content, topic string) []models.Evidence {
	if a.searcher == nil {
		return nil
	}

	keyPoints := ExtractKeyPoints(content)
	if len(keyPoints) == 0 {
		metrics.RecordEvidenceLookup("skipped")
		return nil
	}

	lookupCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	evidence, err := a.searcher.Search(lookupCtx, models.EvidenceQuery{
		Query: strings.Join(keyPoints, " "),
		Topic: topic,
	})
	if err != nil {
		metrics.RecordEvidenceLookup("error")
		a.logger.WithError(err).Debug("Evidence search failed, returning empty list")
		return nil
	}

	if len(evidence) == 0 {
		metrics.RecordEvidenceLookup("empty")
		return nil
	}

	metrics.RecordEvidenceLookup("hit")
	if len(evidence) > maxCitationsPerTurn {
		evidence = evidence[:maxCitationsPerTurn]
	}
	return evidence
}

// ExtractKeyPoints pulls up to three salient query terms out of a turn's
// content using the lightweight pattern rules above. Terms of three runes or
// fewer are dropped, and duplicates are removed preserving first occurrence.
func ExtractKeyPoints(content string) []string {
	var keywords []string
	seen := make(map[string]struct{})

	for _, pattern := range keyPointPatterns {
		for _, match := range pattern.FindAllStringSubmatch(content, -1) {
			term := match[1]
			if utf8.RuneCountInString(term) <= 2 {
				continue
			}
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			keywords = append(keywords, term)
		}
	}

	if len(keywords) > maxKeyPoints {
		keywords = keywords[:maxKeyPoints]
	}
	return keywords
}
