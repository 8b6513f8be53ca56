package query_test

import (
	"github.com/logzilla/query2excel/internal/client"
	"github.com/logzilla/query2excel/internal/query"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Classify", func() {
	It("recognizes IN_PROGRESS", func() {
		Expect(query.Classify(ok(`{"status":"IN_PROGRESS","query_id":"x"}`))).To(Equal(query.InProgress{}))
	})

	It("prefers IN_PROGRESS over a partial results field", func() {
		Expect(query.Classify(ok(`{"status":"IN_PROGRESS","results":{"details":[]}}`))).To(Equal(query.InProgress{}))
	})

	It("returns the full body and the results of a completed query", func() {
		body := `{"status":"DONE","results":{"details":[{"ts_from":1700000000,"count":5}]}}`

		status := query.Classify(ok(body))

		completed, isCompleted := status.(query.Completed)
		Expect(isCompleted).To(BeTrue())
		Expect(string(completed.Body)).To(Equal(body))
		Expect(string(completed.Results)).To(Equal(`{"details":[{"ts_from":1700000000,"count":5}]}`))
	})

	It("treats a completed response without a status field as completed", func() {
		_, isCompleted := query.Classify(ok(`{"results":{}}`)).(query.Completed)
		Expect(isCompleted).To(BeTrue())
	})

	DescribeTable("classifies anything else as a failure",
		func(statusCode int, body string) {
			status := query.Classify(&client.Response{StatusCode: statusCode, Body: []byte(body)})

			failed, isFailed := status.(query.Failed)
			Expect(isFailed).To(BeTrue())
			Expect(failed.StatusCode).To(Equal(statusCode))
			Expect(failed.Detail).NotTo(BeEmpty())
		},
		Entry("error field", 200, `{"error":"query expired"}`),
		Entry("unknown status", 200, `{"status":"FAILED"}`),
		Entry("non-string status", 200, `{"status":3}`),
		Entry("empty object", 200, `{}`),
		Entry("not json", 502, `<html>Bad Gateway</html>`),
		Entry("empty body", 500, ``),
		Entry("json array", 200, `[]`),
	)
})
