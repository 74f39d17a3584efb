// Package detector decides whether a fetched HTML page is effectively blank.
//
// Classification is a pure function of the status code, the raw body length
// and the decoded HTML. Rules are applied in order and the first match wins.
package detector

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/blank-page-detector/models"
)

const (
	// thinErrorBodyBytes is the body size below which an HTTP error page is blank.
	thinErrorBodyBytes = 200
	// singleImageMaxText is the text length under which a lone image makes a page blank.
	singleImageMaxText = 10

	hiddenSelector = "script, style, iframe, svg, meta, link, noscript"
)

// Blank reasons produced by Classify with default thresholds.
const (
	ReasonSingleImage = "Single image without text"
	ReasonEmptyBody   = "Empty Body / No Text"
)

// MessageParseError is stored on results whose HTML could not be parsed.
const MessageParseError = "Parsing error"

// Thresholds are the configurable limits of the heuristic.
type Thresholds struct {
	MinHTMLLength int
	MinTextLength int
}

// ThresholdsFrom extracts classifier thresholds from a scan config.
func ThresholdsFrom(cfg models.ScanConfig) Thresholds {
	return Thresholds{
		MinHTMLLength: cfg.MinHTMLLength,
		MinTextLength: cfg.MinTextLength,
	}
}

// Input is everything the classifier looks at.
type Input struct {
	StatusCode    int
	ContentLength int
	HTML          string
}

// Verdict is the classifier's decision. Reason is set exactly when IsBlank is true.
type Verdict struct {
	IsBlank           bool
	Reason            string
	VisibleTextLength int
	HasImagesOnly     bool
	ImageCount        int
	IframeCount       int
	ParseError        error
}

// Classify applies the blank-page rules to in.
func Classify(in Input, th Thresholds) (v Verdict) {
	if in.StatusCode >= 400 && in.ContentLength < thinErrorBodyBytes {
		return blank(fmt.Sprintf("HTTP Error %d with thin content", in.StatusCode))
	}
	if utf8.RuneCountInString(in.HTML) < th.MinHTMLLength {
		return blank(fmt.Sprintf("HTML too short (<%d chars)", th.MinHTMLLength))
	}

	defer func() {
		if r := recover(); r != nil {
			v.ParseError = fmt.Errorf("html parser panic: %v", r)
		}
	}()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(in.HTML))
	if err != nil {
		return Verdict{ParseError: err}
	}

	// Counts come from the untouched tree; stripping below removes iframes.
	v.ImageCount = doc.Find("img").Length()
	v.IframeCount = doc.Find("iframe").Length()

	doc.Find(hiddenSelector).Remove()
	v.VisibleTextLength = utf8.RuneCountInString(collapseWhitespace(doc.Find("body").Text()))

	if v.VisibleTextLength >= th.MinTextLength {
		return v
	}

	v.IsBlank = true
	switch {
	case v.ImageCount == 1 && v.VisibleTextLength < singleImageMaxText:
		v.HasImagesOnly = true
		v.Reason = ReasonSingleImage
	case v.VisibleTextLength == 0 && v.ImageCount == 0 && v.IframeCount == 0:
		v.Reason = ReasonEmptyBody
	default:
		v.Reason = fmt.Sprintf("Low visible text (<%d chars)", th.MinTextLength)
	}
	return v
}

// Apply copies the verdict onto a result record.
func (v Verdict) Apply(res models.ScanResult) models.ScanResult {
	res.VisibleTextLength = v.VisibleTextLength
	res.HasImagesOnly = v.HasImagesOnly
	if v.ParseError != nil {
		res.Error = MessageParseError
	}
	if v.IsBlank {
		return res.Blank(v.Reason)
	}
	return res
}

func blank(reason string) Verdict {
	return Verdict{IsBlank: true, Reason: reason}
}

// collapseWhitespace trims s and folds every whitespace run into one space.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
