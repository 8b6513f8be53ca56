package client_test

import (
	"context"
	"fmt"

	"github.com/logzilla/query2excel/internal/client"
	"github.com/logzilla/query2excel/internal/logzillatest"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var _ = Describe("debug logging", func() {
	var (
		server *logzillatest.Server
		logs   *observer.ObservedLogs
		undo   func()
	)

	BeforeEach(func() {
		var core zapcore.Core
		core, logs = observer.New(zapcore.DebugLevel)
		undo = zap.ReplaceGlobals(zap.New(core))
		server = logzillatest.NewServer()
	})

	AfterEach(func() {
		undo()
		server.Close()
	})

	It("never logs the api token", func() {
		c := client.NewClient(server.URL, logzillatest.Token)

		_, err := c.CreateQuery(context.Background(), []byte(`{"type":"EventRateQuery"}`))
		Expect(err).To(BeNil())
		_, err = c.GetQuery(context.Background(), logzillatest.QueryID)
		Expect(err).To(BeNil())

		entries := logs.All()
		Expect(entries).NotTo(BeEmpty())
		for _, entry := range entries {
			Expect(entry.Message).NotTo(ContainSubstring(logzillatest.Token))
			for key, value := range entry.ContextMap() {
				Expect(fmt.Sprint(value)).NotTo(ContainSubstring(logzillatest.Token), "field %s", key)
			}
		}
	})

	It("logs the redacted authorization header", func() {
		c := client.NewClient(server.URL, logzillatest.Token)

		_, err := c.CreateQuery(context.Background(), []byte(`{}`))
		Expect(err).To(BeNil())

		sent := logs.FilterMessage("sending request").All()
		Expect(sent).To(HaveLen(1))
		Expect(sent[0].ContextMap()).To(HaveKeyWithValue("authorization", "token <redacted>"))
	})
})
