package config

import "testing"

func TestTradeLimit(t *testing.T) {
	p := PlansConfig{
		TradeLimits: map[string]int{"free": 60, "plus": 300, "pro": 0},
	}
	if limit, unlimited := p.TradeLimit("free"); limit != 60 || unlimited {
		t.Fatalf("free: limit=%d unlimited=%v", limit, unlimited)
	}
	if limit, unlimited := p.TradeLimit("plus"); limit != 300 || unlimited {
		t.Fatalf("plus: limit=%d unlimited=%v", limit, unlimited)
	}
	if _, unlimited := p.TradeLimit("pro"); !unlimited {
		t.Fatalf("pro should be unlimited")
	}
}

func TestTradeLimit_UnknownPlanFallsBackToFree(t *testing.T) {
	p := PlansConfig{
		TradeLimits: map[string]int{"free": 60},
	}
	if limit, unlimited := p.TradeLimit("enterprise"); limit != 60 || unlimited {
		t.Fatalf("limit=%d unlimited=%v want free tier", limit, unlimited)
	}
	if limit, unlimited := p.TradeLimit("  FREE  "); limit != 60 || unlimited {
		t.Fatalf("plan lookup should trim and lowercase, got limit=%d unlimited=%v", limit, unlimited)
	}
}

func TestAccountLimit(t *testing.T) {
	p := PlansConfig{
		AccountLimits: map[string]int{"free": 2, "plus": 5, "pro": 20},
	}
	if limit, unlimited := p.AccountLimit("pro"); limit != 20 || unlimited {
		t.Fatalf("pro: limit=%d unlimited=%v", limit, unlimited)
	}
}

func TestAccountLimit_EmptyConfigMeansUnlimited(t *testing.T) {
	var p PlansConfig
	if _, unlimited := p.AccountLimit("free"); !unlimited {
		t.Fatalf("missing config should not enforce a ceiling")
	}
}
