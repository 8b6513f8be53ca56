package metrics_test

import (
	"os"
	"path/filepath"
	"time"

	"github.com/logzilla/query2excel/pkg/metrics"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("metrics", func() {
	It("writes the batch job metrics as a textfile", func() {
		metrics.IncreasePollAttemptsMetric(metrics.PollOutcomeInProgress)
		metrics.IncreasePollAttemptsMetric(metrics.PollOutcomeCompleted)
		metrics.UpdateReportRowsMetric(7)
		metrics.ObserveStageDuration("poll", 1500*time.Millisecond)
		metrics.RecordRunOutcome(true, time.Unix(1700000000, 0))

		path := filepath.Join(GinkgoT().TempDir(), "query2excel.prom")
		Expect(metrics.WriteTextfile(path)).To(Succeed())

		content, err := os.ReadFile(path)
		Expect(err).To(BeNil())

		text := string(content)
		Expect(text).To(ContainSubstring(`query2excel_poll_attempts_total{outcome="in_progress"}`))
		Expect(text).To(ContainSubstring(`query2excel_poll_attempts_total{outcome="completed"}`))
		Expect(text).To(ContainSubstring("query2excel_report_rows 7"))
		Expect(text).To(ContainSubstring(`query2excel_stage_duration_seconds{stage="poll"} 1.5`))
		Expect(text).To(ContainSubstring("query2excel_last_run_success 1"))
		Expect(text).To(ContainSubstring("query2excel_last_run_timestamp_seconds 1.7e+09"))
	})

	It("records a failed run", func() {
		metrics.RecordRunOutcome(false, time.Now())

		path := filepath.Join(GinkgoT().TempDir(), "query2excel.prom")
		Expect(metrics.WriteTextfile(path)).To(Succeed())

		content, err := os.ReadFile(path)
		Expect(err).To(BeNil())
		Expect(string(content)).To(ContainSubstring("query2excel_last_run_success 0"))
	})
})
