package contracts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	ratioMetricMarkerConstant       = "ratio"
	coverageMetricMarkerConstant    = "coverage"
	rateMetricMarkerConstant        = "rate"
	metricsNotObjectMessageConstant = "metrics must be a JSON object"
	metricKeyTemplateConstant       = "unexpected metric key token %v"
)

// QualityTrend describes the direction of the overall quality score.
type QualityTrend string

// Known quality trends. Other values are carried through verbatim.
const (
	QualityTrendImproving QualityTrend = "improving"
	QualityTrendStable    QualityTrend = "stable"
	QualityTrendDeclining QualityTrend = "declining"
)

// Healthy reports whether the trend is stable or improving.
func (trend QualityTrend) Healthy() bool {
	return trend == QualityTrendStable || trend == QualityTrendImproving
}

// Metric is a single named quality measurement.
type Metric struct {
	Name  string
	Value any
}

// IsPercentage reports whether the metric is a ratio, coverage, or rate.
func (metric Metric) IsPercentage() bool {
	return strings.Contains(metric.Name, ratioMetricMarkerConstant) ||
		strings.Contains(metric.Name, coverageMetricMarkerConstant) ||
		strings.Contains(metric.Name, rateMetricMarkerConstant)
}

// Number returns the metric value as float64 when it is numeric.
func (metric Metric) Number() (float64, bool) {
	switch typedValue := metric.Value.(type) {
	case json.Number:
		parsed, parseError := typedValue.Float64()
		return parsed, parseError == nil
	case float64:
		return typedValue, true
	case int:
		return float64(typedValue), true
	default:
		return 0, false
	}
}

// Metrics preserves the order in which metrics appear in the dashboard file.
type Metrics []Metric

// UnmarshalJSON decodes a JSON object while retaining key order.
func (metrics *Metrics) UnmarshalJSON(content []byte) error {
	if bytes.Equal(bytes.TrimSpace(content), []byte("null")) {
		*metrics = nil
		return nil
	}

	decoder := json.NewDecoder(bytes.NewReader(content))
	decoder.UseNumber()

	openingToken, tokenError := decoder.Token()
	if tokenError != nil {
		return tokenError
	}
	if delimiter, isDelimiter := openingToken.(json.Delim); !isDelimiter || delimiter != '{' {
		return errors.New(metricsNotObjectMessageConstant)
	}

	var decoded Metrics
	for decoder.More() {
		keyToken, keyError := decoder.Token()
		if keyError != nil {
			return keyError
		}
		metricName, isString := keyToken.(string)
		if !isString {
			return fmt.Errorf(metricKeyTemplateConstant, keyToken)
		}
		var metricValue any
		if valueError := decoder.Decode(&metricValue); valueError != nil {
			return valueError
		}
		decoded = append(decoded, Metric{Name: metricName, Value: metricValue})
	}

	*metrics = decoded
	return nil
}

// QualityDashboard summarizes project quality for the sprint report.
type QualityDashboard struct {
	OverallQualityScore *float64     `json:"overall_quality_score"`
	QualityTrend        QualityTrend `json:"quality_trend"`
	Metrics             Metrics      `json:"metrics"`
}

// Score returns the overall score, or 0 when the dashboard omits it.
func (dashboard QualityDashboard) Score() float64 {
	if dashboard.OverallQualityScore == nil {
		return 0
	}
	return *dashboard.OverallQualityScore
}

// ParseQualityDashboard decodes quality-dashboard.json content.
func ParseQualityDashboard(content []byte) (QualityDashboard, error) {
	var dashboard QualityDashboard
	if decodeError := json.Unmarshal(content, &dashboard); decodeError != nil {
		return QualityDashboard{}, decodeError
	}
	return dashboard, nil
}
