package metrics

import (
	"fmt"
	"strings"
	"time"
)

// RecordResult holds the outcome of evaluating one dataset record.
type RecordResult struct {
	Identifier     string
	Title          string
	Author         string
	Expected       []string
	Suggested      []string
	Confirmed      int
	Score          Score
	ProcessingTime time.Duration
	Error          string // If the pipeline failed for this record
}

// AggregateResults holds the run-level metrics across all records.
type AggregateResults struct {
	TotalRecords int
	SuccessCount int
	FailureCount int

	// Macro averages across successful records
	Precision float64
	Recall    float64
	F1        float64

	// Share of suggested headings the registry confirmed
	ConfirmationRate float64

	AverageProcessingTime time.Duration
	TotalProcessingTime   time.Duration

	Results []RecordResult

	EvaluationDate time.Time
	Provider       string
	Model          string
	SampleSize     int
}

// Aggregate computes run-level metrics from per-record results.
func Aggregate(results []RecordResult, provider, model string) *AggregateResults {
	agg := &AggregateResults{
		TotalRecords:   len(results),
		Results:        results,
		EvaluationDate: time.Now(),
		Provider:       provider,
		Model:          model,
		SampleSize:     len(results),
	}

	var totalDuration, successDuration time.Duration
	var sumP, sumR, sumF float64
	suggested, confirmed := 0, 0

	for _, result := range results {
		totalDuration += result.ProcessingTime

		if result.Error != "" {
			agg.FailureCount++
			continue
		}

		agg.SuccessCount++
		successDuration += result.ProcessingTime
		sumP += result.Score.Precision
		sumR += result.Score.Recall
		sumF += result.Score.F1
		suggested += len(result.Suggested)
		confirmed += result.Confirmed
	}

	if agg.SuccessCount > 0 {
		n := float64(agg.SuccessCount)
		agg.Precision = sumP / n
		agg.Recall = sumR / n
		agg.F1 = sumF / n
		agg.AverageProcessingTime = successDuration / time.Duration(agg.SuccessCount)
	}
	if suggested > 0 {
		agg.ConfirmationRate = float64(confirmed) / float64(suggested)
	}
	agg.TotalProcessingTime = totalDuration

	return agg
}

// PrintSummary prints a human-readable summary of the evaluation run.
func (a *AggregateResults) PrintSummary() {
	fmt.Println("\n" + strings.Repeat("=", 70))
	fmt.Println("LCSH SUGGESTION EVALUATION SUMMARY")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Evaluation Date: %s\n", a.EvaluationDate.Format("2006-01-02 15:04:05"))
	fmt.Printf("Provider: %s\n", a.Provider)
	fmt.Printf("Model: %s\n", a.Model)
	fmt.Printf("Sample Size: %d records\n", a.SampleSize)
	fmt.Println()

	fmt.Println("PROCESSING STATISTICS")
	fmt.Println(strings.Repeat("-", 70))
	fmt.Printf("Total Records: %d\n", a.TotalRecords)
	if a.TotalRecords > 0 {
		fmt.Printf("Successful: %d (%.1f%%)\n", a.SuccessCount, float64(a.SuccessCount)/float64(a.TotalRecords)*100)
		fmt.Printf("Failed: %d (%.1f%%)\n", a.FailureCount, float64(a.FailureCount)/float64(a.TotalRecords)*100)
	}
	fmt.Printf("Average Processing Time: %s\n", a.AverageProcessingTime)
	fmt.Printf("Total Processing Time: %s\n", a.TotalProcessingTime)
	fmt.Println()

	fmt.Println("HEADING ACCURACY")
	fmt.Println(strings.Repeat("-", 70))
	fmt.Printf("Precision: %.2f%% (%.3f)\n", a.Precision*100, a.Precision)
	fmt.Printf("Recall:    %.2f%% (%.3f)\n", a.Recall*100, a.Recall)
	fmt.Printf("F1:        %.2f%% (%.3f)\n", a.F1*100, a.F1)
	fmt.Printf("Registry Confirmation Rate: %.2f%%\n", a.ConfirmationRate*100)
	fmt.Println(strings.Repeat("=", 70))
}
