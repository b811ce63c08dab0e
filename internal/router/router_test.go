package router

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clerky/website/internal/handler"
	"github.com/clerky/website/internal/models"
	"github.com/clerky/website/internal/service"
	"github.com/clerky/website/pkg/payment"
	"github.com/clerky/website/pkg/utils"
)

type stubImages struct {
	image string
	err   error
}

func (s stubImages) GetImageBase64(ctx context.Context, id string) (string, error) {
	return s.image, s.err
}

type testEnv struct {
	app       *fiber.App
	publicDir string
}

func newTestEnv(t *testing.T, providerURL string, images service.ImageRepository) *testEnv {
	t.Helper()

	root := t.TempDir()
	publicDir := filepath.Join(root, "public")
	assetsDir := filepath.Join(root, "assets")
	require.NoError(t, os.MkdirAll(filepath.Join(publicDir, "docs"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(assetsDir, "css"), 0o755))

	writeFile(t, filepath.Join(publicDir, "index.html"), "<html><head><title>Clerky</title></head><body>home</body></html>")
	writeFile(t, filepath.Join(publicDir, "termos.html"), `<html><head><link rel="stylesheet" href="/assets/css/style.css"></head><body>termos<script src="/assets/js/theme.js"></script></body></html>`)
	writeFile(t, filepath.Join(publicDir, "docs", "guia.html"), "<html><body>guia</body></html>")
	writeFile(t, filepath.Join(publicDir, "docs", "index.html"), "<html><body>docs</body></html>")
	writeFile(t, filepath.Join(assetsDir, "css", "style.css"), "body{}")

	translations := service.NewTranslationService(map[string]map[string]interface{}{
		"pt": {"nav": map[string]interface{}{"about": "Sobre"}},
		"en": {"nav": map[string]interface{}{"about": "About"}},
	})

	logger := zap.NewNop()
	checkoutService := service.NewCheckoutService(payment.NewAsaasService(providerURL, "'$aact_test'"), images, "", logger)

	app := NewFiberApp(Options{
		PublicDir:         publicDir,
		AssetsDir:         assetsDir,
		AllowOrigins:      "*",
		CheckoutRateLimit: 100,
	}, Handlers{
		Page:        handler.NewPageHandler(publicDir, logger),
		Translation: handler.NewTranslationHandler(translations),
		Checkout:    handler.NewCheckoutHandler(checkoutService, utils.NewValidator(), logger),
	}, logger)

	return &testEnv{app: app, publicDir: publicDir}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func postCheckout(t *testing.T, app *fiber.App, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, raw := doRequest(t, app, req)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &out), raw)
	return resp, out
}

func TestServePageInjectsAssets(t *testing.T) {
	env := newTestEnv(t, "", stubImages{})

	resp, body := doRequest(t, env.app, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, body, `<link rel="stylesheet" href="/assets/css/style.css">`)
	assert.Contains(t, body, `<script src="/assets/js/theme.js"></script>`)
	assert.Contains(t, body, `<script src="/assets/js/language.js"></script>`)
}

func TestServePageKeepsExistingAssets(t *testing.T) {
	env := newTestEnv(t, "", stubImages{})

	_, body := doRequest(t, env.app, httptest.NewRequest(http.MethodGet, "/termos", nil))
	assert.Equal(t, 1, strings.Count(body, "style.css"))
	assert.Equal(t, 1, strings.Count(body, "theme.js"))
	assert.Equal(t, 1, strings.Count(body, "language.js"))
}

func TestServePageMissingFile(t *testing.T) {
	env := newTestEnv(t, "", stubImages{})

	resp, body := doRequest(t, env.app, httptest.NewRequest(http.MethodGet, "/status", nil))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "File not found", body)
}

func TestHTMLRedirect(t *testing.T) {
	env := newTestEnv(t, "", stubImages{})

	cases := []struct {
		path     string
		location string
		contains string
	}{
		{path: "/termos.html?ref=footer", location: "/termos?ref=footer", contains: "termos"},
		{path: "/docs/guia.html", location: "/docs/guia", contains: "guia"},
		{path: "/index.html", location: "/", contains: "home"},
		{path: "/docs/index.html", location: "/docs/", contains: "docs"},
	}

	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			resp, _ := doRequest(t, env.app, httptest.NewRequest(http.MethodGet, tc.path, nil))
			require.Equal(t, fiber.StatusMovedPermanently, resp.StatusCode)
			require.Equal(t, tc.location, resp.Header.Get("Location"))

			resp, body := doRequest(t, env.app, httptest.NewRequest(http.MethodGet, tc.location, nil))
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
			assert.Contains(t, body, tc.contains)
			assert.Contains(t, body, "/assets/js/language.js")
		})
	}
}

func TestCleanURLFallsThrough(t *testing.T) {
	env := newTestEnv(t, "", stubImages{})

	resp, _ := doRequest(t, env.app, httptest.NewRequest(http.MethodGet, "/nao-existe", nil))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, body := doRequest(t, env.app, httptest.NewRequest(http.MethodGet, "/docs/guia", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, fiber.MIMETextHTMLCharsetUTF8, resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, body, "/assets/js/theme.js")
}

func TestHTMLRedirectMissingFile(t *testing.T) {
	env := newTestEnv(t, "", stubImages{})

	resp, body := doRequest(t, env.app, httptest.NewRequest(http.MethodGet, "/nao-existe.html", nil))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "File not found", body)
	assert.Empty(t, resp.Header.Get("Location"))
}

func TestStaticAssets(t *testing.T) {
	env := newTestEnv(t, "", stubImages{})

	resp, body := doRequest(t, env.app, httptest.NewRequest(http.MethodGet, "/assets/css/style.css", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "body{}", body)
}

func TestTranslationsEndpoints(t *testing.T) {
	env := newTestEnv(t, "", stubImages{})

	_, body := doRequest(t, env.app, httptest.NewRequest(http.MethodGet, "/api/translations?lang=en", nil))
	assert.JSONEq(t, `{"nav":{"about":"About"}}`, body)

	_, body = doRequest(t, env.app, httptest.NewRequest(http.MethodGet, "/api/translations?lang=xx", nil))
	assert.JSONEq(t, `{"nav":{"about":"Sobre"}}`, body)

	_, body = doRequest(t, env.app, httptest.NewRequest(http.MethodGet, "/api/translations", nil))
	assert.JSONEq(t, `{"nav":{"about":"Sobre"}}`, body)

	_, body = doRequest(t, env.app, httptest.NewRequest(http.MethodGet, "/api/translations/all", nil))
	assert.JSONEq(t, `{"pt":{"nav":{"about":"Sobre"}},"en":{"nav":{"about":"About"}}}`, body)

	_, body = doRequest(t, env.app, httptest.NewRequest(http.MethodGet, "/api/translations/key?lang=en&key=nav.about", nil))
	assert.JSONEq(t, `{"success":true,"data":{"lang":"en","key":"nav.about","value":"About"}}`, body)

	_, body = doRequest(t, env.app, httptest.NewRequest(http.MethodGet, "/api/translations/key?lang=en&key=nav.contact", nil))
	assert.JSONEq(t, `{"success":true,"data":{"lang":"en","key":"nav.contact","value":"nav.contact"}}`, body)

	resp, _ := doRequest(t, env.app, httptest.NewRequest(http.MethodGet, "/api/translations/key", nil))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCheckoutSuccess(t *testing.T) {
	var sent models.CheckoutSessionSpec
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/checkouts", r.URL.Path)
		assert.Equal(t, "$aact_test", r.Header.Get("access_token"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		_, _ = io.WriteString(w, `{"id":"chk_9","status":"ACTIVE","url":"https://asaas/pay/9","invoiceUrl":"https://asaas/inv/9"}`)
	}))
	defer provider.Close()

	env := newTestEnv(t, provider.URL, stubImages{image: "aW1n"})
	resp, out := postCheckout(t, env.app, `{"billingTypes":"PIX","quantity":2}`)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "https://asaas/pay/9", out["link"])
	assert.Equal(t, "chk_9", out["checkoutId"])
	assert.Equal(t, "ACTIVE", out["status"])
	assert.Equal(t, sent.ExternalReference, out["externalReference"])
	assert.NotEmpty(t, sent.ExternalReference)
	assert.NotEqual(t, sent.ExternalReference, sent.Items[0].ExternalReference)

	assert.Equal(t, []interface{}{"PIX"}, sent.BillingTypes)
	assert.Equal(t, 2, sent.Items[0].Quantity)
	assert.Equal(t, "aW1n", sent.Items[0].ImageBase64)
}

func TestCheckoutEmptyBodyAndMissingImage(t *testing.T) {
	var sent models.CheckoutSessionSpec
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		_, _ = io.WriteString(w, `{"id":"chk_1","status":"ACTIVE","link":"https://asaas/c/1"}`)
	}))
	defer provider.Close()

	env := newTestEnv(t, provider.URL, stubImages{err: errors.New("mongo down")})
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", nil)
	resp, body := doRequest(t, env.app, req)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode, body)
	assert.Equal(t, " ", sent.Items[0].ImageBase64)
	assert.Equal(t, []interface{}{"CREDIT_CARD"}, sent.BillingTypes)
	assert.Equal(t, 197.0, sent.Items[0].Value)
}

func TestCheckoutNotConfigured(t *testing.T) {
	env := newTestEnv(t, "", stubImages{image: "img"})

	resp, out := postCheckout(t, env.app, `{}`)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "Configuração do servidor incompleta", out["error"])
}

func TestCheckoutUpstreamError(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"errors":[{"code":"invalid_access_token"}]}`)
	}))
	defer provider.Close()

	env := newTestEnv(t, provider.URL, stubImages{image: "img"})
	resp, out := postCheckout(t, env.app, `{}`)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "Erro ao criar checkout na Asaas", out["error"])
	assert.Equal(t, `{"errors":[{"code":"invalid_access_token"}]}`, out["details"])
}

func TestCheckoutNoURLReturned(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":"chk_2","status":"ACTIVE","link":""}`)
	}))
	defer provider.Close()

	env := newTestEnv(t, provider.URL, stubImages{image: "img"})
	resp, out := postCheckout(t, env.app, `{}`)

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "URL do checkout não retornada pela API", out["error"])
	assert.NotContains(t, out, "details")
}

func TestCheckoutInvalidBody(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:1", stubImages{image: "img"})

	resp, out := postCheckout(t, env.app, `{"quantity":`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, out["success"])

	resp, out = postCheckout(t, env.app, `{"value":-10}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, out["details"], "value must be greater than or equal to 0")
}

func TestCheckoutTransportError(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	providerURL := provider.URL
	provider.Close()

	env := newTestEnv(t, providerURL, stubImages{image: "img"})
	resp, out := postCheckout(t, env.app, `{}`)

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Erro interno ao processar checkout", out["error"])
}
