package receipt

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"regexp"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
	"github.com/prometheus/client_golang/prometheus"
)

var anyPath = regexp.MustCompile(`.*`)

var _ = Describe("Server", func() {
	var (
		store       *MemoryStore
		service     *Service
		config      ServerConfig
		server      *Server
		ghttpServer *ghttp.Server
	)

	setupServer := func() {
		if ghttpServer != nil {
			ghttpServer.Close()
		}
		server = NewServer(service, config)
		ghttpServer = ghttp.NewServer()
		for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodOptions} {
			ghttpServer.RouteToHandler(method, anyPath, server.ServeHTTP)
		}
	}

	postReceipt := func(body string) *http.Response {
		resp, err := http.Post(ghttpServer.URL()+"/receipts/process", "application/json", strings.NewReader(body))
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	decode := func(resp *http.Response, v interface{}) {
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(json.Unmarshal(body, v)).To(Succeed())
	}

	encode := func(req ProcessRequest) string {
		var buf bytes.Buffer
		Expect(json.NewEncoder(&buf).Encode(req)).To(Succeed())
		return buf.String()
	}

	BeforeEach(func() {
		store = NewMemoryStore()
		registry := prometheus.NewRegistry()
		service = NewServiceWithDeps(store, NewScorer(), NewMetrics(registry, store))
		config = DefaultServerConfig()
		config.Gatherer = registry
		ghttpServer = nil
		setupServer()
	})

	AfterEach(func() {
		if ghttpServer != nil {
			ghttpServer.Close()
		}
	})

	Describe("handleIndex", func() {
		It("should describe the service", func() {
			resp, err := http.Get(ghttpServer.URL() + "/")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			var body map[string]string
			decode(resp, &body)
			Expect(body).To(HaveKeyWithValue("message", "A simple receipt processor"))
		})
	})

	Describe("handleProcessReceipt", func() {
		When("the receipt is valid", func() {
			var resp *http.Response

			BeforeEach(func() {
				resp = postReceipt(encode(targetRequest()))
			})

			It("should return status OK", func() {
				Expect(resp.StatusCode).To(Equal(http.StatusOK))
				resp.Body.Close()
			})

			It("should return the receipt ID", func() {
				var body map[string]string
				decode(resp, &body)
				Expect(body).To(HaveKeyWithValue("id", targetID))
			})

			It("should set Content-Type to application/json", func() {
				Expect(resp.Header.Get("Content-Type")).To(Equal("application/json"))
				resp.Body.Close()
			})

			It("should set CORS headers", func() {
				Expect(resp.Header.Get("Access-Control-Allow-Origin")).To(Equal("*"))
				resp.Body.Close()
			})

			It("should store the points", func() {
				resp.Body.Close()
				points, err := store.Get(targetID)
				Expect(err).NotTo(HaveOccurred())
				Expect(points).To(Equal(targetPoints))
			})
		})

		DescribeTable("invalid receipts",
			func(body string) {
				resp := postReceipt(body)
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
				var payload map[string]string
				decode(resp, &payload)
				Expect(payload).To(HaveKeyWithValue("detail", "The receipt is invalid."))
				Expect(store.Len()).To(BeZero())
			},
			Entry("not JSON", `{"retailer":`),
			Entry("missing total", `{"retailer":"Target","purchaseDate":"2022-01-01","purchaseTime":"13:01","items":[{"shortDescription":"a","price":"1.00"}]}`),
			Entry("price without cents", `{"retailer":"Target","purchaseDate":"2022-01-01","purchaseTime":"13:01","items":[{"shortDescription":"a","price":"1"}],"total":"1.00"}`),
			Entry("numeric total", `{"retailer":"Target","purchaseDate":"2022-01-01","purchaseTime":"13:01","items":[{"shortDescription":"a","price":"1.00"}],"total":1.00}`),
			Entry("no items", `{"retailer":"Target","purchaseDate":"2022-01-01","purchaseTime":"13:01","items":[],"total":"1.00"}`),
			Entry("unparseable date", `{"retailer":"Target","purchaseDate":"not-a-date","purchaseTime":"13:01","items":[{"shortDescription":"a","price":"1.00"}],"total":"1.00"}`),
			Entry("unparseable time", `{"retailer":"Target","purchaseDate":"2022-01-01","purchaseTime":"25:99","items":[{"shortDescription":"a","price":"1.00"}],"total":"1.00"}`),
		)

		When("the body exceeds the limit", func() {
			BeforeEach(func() {
				config.MaxBodyBytes = 16
				setupServer()
			})

			It("should return status Request Entity Too Large", func() {
				resp := postReceipt(encode(targetRequest()))
				Expect(resp.StatusCode).To(Equal(http.StatusRequestEntityTooLarge))
				resp.Body.Close()
			})
		})
	})

	Describe("handleGetPoints", func() {
		When("the receipt was processed", func() {
			BeforeEach(func() {
				resp := postReceipt(encode(cornerMarketRequest()))
				Expect(resp.StatusCode).To(Equal(http.StatusOK))
				resp.Body.Close()
			})

			It("should return its points", func() {
				resp, err := http.Get(ghttpServer.URL() + "/receipts/" + cornerMarketID + "/points")
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusOK))
				var body map[string]int
				decode(resp, &body)
				Expect(body).To(HaveKeyWithValue("points", cornerMarketPoints))
			})
		})

		When("the ID is unknown", func() {
			It("should return status Not Found", func() {
				resp, err := http.Get(ghttpServer.URL() + "/receipts/unknown/points")
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
				var body map[string]string
				decode(resp, &body)
				Expect(body).To(HaveKeyWithValue("detail", "No receipt found for that ID."))
			})
		})
	})

	Describe("preflight requests", func() {
		It("should answer with No Content", func() {
			req, err := http.NewRequest(http.MethodOptions, ghttpServer.URL()+"/receipts/process", nil)
			Expect(err).NotTo(HaveOccurred())
			resp, err := http.DefaultClient.Do(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusNoContent))
			Expect(resp.Header.Get("Access-Control-Allow-Methods")).To(ContainSubstring("POST"))
			resp.Body.Close()
		})
	})

	Describe("method routing", func() {
		It("should reject GET on the process route", func() {
			resp, err := http.Get(ghttpServer.URL() + "/receipts/process")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusMethodNotAllowed))
			resp.Body.Close()
		})
	})

	Describe("handleHealth", func() {
		It("should return ok", func() {
			resp, err := http.Get(ghttpServer.URL() + "/healthz")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(Equal("ok"))
		})
	})

	Describe("metrics", func() {
		It("should expose processing counters", func() {
			resp := postReceipt(encode(targetRequest()))
			resp.Body.Close()

			resp, err := http.Get(ghttpServer.URL() + "/metrics")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring(`receipt_processor_receipts_processed_total{outcome="scored"} 1`))
		})
	})

	Describe("rate limiting", func() {
		BeforeEach(func() {
			config.RateLimit = 0.001
			config.RateBurst = 1
			setupServer()
		})

		It("should reject requests past the burst", func() {
			first, err := http.Get(ghttpServer.URL() + "/healthz")
			Expect(err).NotTo(HaveOccurred())
			Expect(first.StatusCode).To(Equal(http.StatusOK))
			first.Body.Close()

			second, err := http.Get(ghttpServer.URL() + "/healthz")
			Expect(err).NotTo(HaveOccurred())
			Expect(second.StatusCode).To(Equal(http.StatusTooManyRequests))
			second.Body.Close()
		})
	})
})
