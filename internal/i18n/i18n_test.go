package i18n

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func initLang(t *testing.T, lang string) context.Context {
	t.Helper()
	if err := Init(lang); err != nil {
		t.Fatalf("Init(%q): %v", lang, err)
	}
	loc := NewLocalizer(lang)
	return WithLocalizer(context.Background(), loc)
}

func TestTranslateEnglish(t *testing.T) {
	ctx := initLang(t, "en")

	got := T(ctx, "AppTitle")
	if got != "Pathways" {
		t.Errorf("T(AppTitle) = %q, want 'Pathways'", got)
	}

	got = T(ctx, "StartAssessment")
	if got != "Start the assessment" {
		t.Errorf("T(StartAssessment) = %q, want 'Start the assessment'", got)
	}
}

func TestTranslateSpanish(t *testing.T) {
	ctx := initLang(t, "es")

	got := T(ctx, "StartAssessment")
	if got != "Comenzar la evaluación" {
		t.Errorf("T(StartAssessment) = %q, want 'Comenzar la evaluación'", got)
	}

	got = T(ctx, "CategoryE")
	if got != "Emprendedor" {
		t.Errorf("T(CategoryE) = %q, want 'Emprendedor'", got)
	}
}

func TestPluralTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	got1 := Tp(ctx, "SummaryAnswered", 1)
	if got1 != "You answered 1 question." {
		t.Errorf("Tp(SummaryAnswered, 1) = %q, want 'You answered 1 question.'", got1)
	}

	got5 := Tp(ctx, "SummaryAnswered", 5)
	if got5 != "You answered 5 questions." {
		t.Errorf("Tp(SummaryAnswered, 5) = %q, want 'You answered 5 questions.'", got5)
	}
}

func TestTemplateDataTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	got := Td(ctx, "MatchesHeading", map[string]any{"Code": "RIA"})
	if got != "Majors and careers for RIA" {
		t.Errorf("Td(MatchesHeading, Code=RIA) = %q, want 'Majors and careers for RIA'", got)
	}
}

func TestMissingKey(t *testing.T) {
	ctx := initLang(t, "en")

	got := T(ctx, "NonExistentKey")
	if got != "NonExistentKey" {
		t.Errorf("T(NonExistentKey) = %q, want 'NonExistentKey'", got)
	}
}

func TestMiddlewareNegotiatesLanguage(t *testing.T) {
	if err := Init("en"); err != nil {
		t.Fatalf("Init: %v", err)
	}

	var got string
	h := Middleware("en")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = T(r.Context(), "Send")
	}))

	tests := []struct {
		accept string
		want   string
	}{
		{"", "Send"},
		{"es-MX,es;q=0.9,en;q=0.5", "Enviar"},
		{"fr-FR", "Send"},
	}
	for _, tt := range tests {
		t.Run(tt.accept, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.accept != "" {
				req.Header.Set("Accept-Language", tt.accept)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)
			if got != tt.want {
				t.Errorf("Accept-Language %q: got %q, want %q", tt.accept, got, tt.want)
			}
		})
	}
}

func TestLanguagesAndDefaultFallback(t *testing.T) {
	if err := Init("es"); err != nil {
		t.Fatalf("Init: %v", err)
	}

	tags := Languages()
	if len(tags) != 2 {
		t.Fatalf("Languages() = %v, want 2 tags", tags)
	}

	// No localizer in the context: the default language applies.
	if got := T(context.Background(), "Send"); got != "Enviar" {
		t.Errorf("T(Send) without localizer = %q, want 'Enviar'", got)
	}
}

func TestInitInvalidLanguage(t *testing.T) {
	if err := Init("not a tag!"); err == nil {
		t.Error("Init with invalid tag: expected error")
	}
}
