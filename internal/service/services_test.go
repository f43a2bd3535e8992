package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tradejournal/internal/auth"
	"tradejournal/internal/config"
	"tradejournal/internal/models"
	"tradejournal/internal/repository"
)

func testPlans() config.PlansConfig {
	return config.PlansConfig{
		TradeLimits:   map[string]int{"free": 2, "plus": 300, "pro": 0},
		AccountLimits: map[string]int{"free": 1, "plus": 5, "pro": 20},
	}
}

func seedUser(repo *stubRepo, plan string) *models.User {
	user := &models.User{Username: "alice", Email: "alice@example.com", Plan: plan}
	_ = repo.InsertUser(context.Background(), user)
	return user
}

func TestCreateTrade_AppliesPnLToAccount(t *testing.T) {
	ctx := context.Background()
	repo := newStubRepo()
	user := seedUser(repo, models.PlanFree)
	account := &models.TradingAccount{UserID: user.ID, Name: "Main", CurrentCapital: decimal.NewFromInt(10000)}
	_ = repo.InsertAccount(ctx, account)

	svc := &TradeService{Repo: repo, Plans: testPlans()}
	trade, err := svc.CreateTrade(ctx, user.ID, TradeInput{
		AccountID: account.ID,
		Direction: models.DirectionLong,
		PnL:       dec("150.25"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if trade.AccountID != account.ID {
		t.Fatalf("account=%s want=%s", trade.AccountID, account.ID)
	}
	delta := repo.appliedPnL[account.ID]
	if delta.Cmp(decimal.RequireFromString("150.25")) != 0 {
		t.Fatalf("applied delta=%s want=150.25", delta.String())
	}
}

func TestCreateTrade_PriceDerivedLeavesBalanceAlone(t *testing.T) {
	ctx := context.Background()
	repo := newStubRepo()
	user := seedUser(repo, models.PlanFree)
	account := &models.TradingAccount{UserID: user.ID, Name: "Main"}
	_ = repo.InsertAccount(ctx, account)

	svc := &TradeService{Repo: repo, Plans: testPlans()}
	trade, err := svc.CreateTrade(ctx, user.ID, TradeInput{
		AccountID:  account.ID,
		Direction:  models.DirectionLong,
		EntryPrice: dec("100"),
		ExitPrice:  dec("110"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if trade.Result == nil || *trade.Result != models.ResultProfit {
		t.Fatalf("result=%v want=profit", trade.Result)
	}
	if len(repo.appliedPnL) != 0 {
		t.Fatalf("price classification must not move the balance: %v", repo.appliedPnL)
	}
}

func TestCreateTrade_PlanLimit(t *testing.T) {
	ctx := context.Background()
	repo := newStubRepo()
	user := seedUser(repo, models.PlanFree)
	account := &models.TradingAccount{UserID: user.ID, Name: "Main"}
	_ = repo.InsertAccount(ctx, account)

	svc := &TradeService{Repo: repo, Plans: testPlans()}
	for i := 0; i < 2; i++ {
		if _, err := svc.CreateTrade(ctx, user.ID, TradeInput{AccountID: account.ID, Direction: models.DirectionLong}); err != nil {
			t.Fatalf("trade %d: %v", i, err)
		}
	}
	if _, err := svc.CreateTrade(ctx, user.ID, TradeInput{AccountID: account.ID, Direction: models.DirectionLong}); err != ErrTradeLimitReached {
		t.Fatalf("err=%v want=ErrTradeLimitReached", err)
	}
}

func TestCreateTrade_FallsBackToDefaultAccount(t *testing.T) {
	ctx := context.Background()
	repo := newStubRepo()
	user := seedUser(repo, models.PlanPro)

	svc := &TradeService{Repo: repo, Plans: testPlans()}
	trade, err := svc.CreateTrade(ctx, user.ID, TradeInput{Direction: models.DirectionShort})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(repo.accounts) != 1 {
		t.Fatalf("accounts=%d want=1", len(repo.accounts))
	}
	created := repo.accounts[0]
	if created.Name != "Default Account" || created.AccountType != "forex" {
		t.Fatalf("fallback account=%+v", created)
	}
	if trade.AccountID != created.ID {
		t.Fatalf("trade account=%s want=%s", trade.AccountID, created.ID)
	}
}

func TestCreateTrade_RejectsForeignAccount(t *testing.T) {
	ctx := context.Background()
	repo := newStubRepo()
	user := seedUser(repo, models.PlanFree)
	other := &models.TradingAccount{UserID: "someone-else", Name: "Theirs"}
	_ = repo.InsertAccount(ctx, other)

	svc := &TradeService{Repo: repo, Plans: testPlans()}
	if _, err := svc.CreateTrade(ctx, user.ID, TradeInput{AccountID: other.ID, Direction: models.DirectionLong}); err != ErrAccountNotFound {
		t.Fatalf("err=%v want=ErrAccountNotFound", err)
	}
}

func TestCreateTrade_CustomInstrument(t *testing.T) {
	ctx := context.Background()
	repo := newStubRepo()
	user := seedUser(repo, models.PlanFree)
	account := &models.TradingAccount{UserID: user.ID}
	_ = repo.InsertAccount(ctx, account)

	svc := &TradeService{Repo: repo, Plans: testPlans()}
	symbol := "BTCUSD"
	trade, err := svc.CreateTrade(ctx, user.ID, TradeInput{
		AccountID:        account.ID,
		Direction:        models.DirectionLong,
		CustomInstrument: &symbol,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	instrument := repo.instrumentsBySymbol["BTCUSD"]
	if instrument == nil || !instrument.IsCustom {
		t.Fatalf("custom instrument not created: %+v", instrument)
	}
	if trade.InstrumentID == nil || *trade.InstrumentID != instrument.ID {
		t.Fatalf("trade instrument=%v want=%s", trade.InstrumentID, instrument.ID)
	}
}

func TestAccountCreate_PlanLimit(t *testing.T) {
	ctx := context.Background()
	repo := newStubRepo()
	user := seedUser(repo, models.PlanFree)

	svc := &AccountService{Repo: repo, Plans: testPlans()}
	if _, err := svc.Create(ctx, user.ID, models.PlanFree, AccountInput{Name: "First", AccountType: "forex"}); err != nil {
		t.Fatalf("first account: %v", err)
	}
	if _, err := svc.Create(ctx, user.ID, models.PlanFree, AccountInput{Name: "Second", AccountType: "forex"}); err != ErrAccountLimitReached {
		t.Fatalf("err=%v want=ErrAccountLimitReached", err)
	}
}

func TestAccountCreate_Defaults(t *testing.T) {
	ctx := context.Background()
	repo := newStubRepo()
	user := seedUser(repo, models.PlanPro)

	svc := &AccountService{Repo: repo, Plans: testPlans()}
	account, err := svc.Create(ctx, user.ID, models.PlanPro, AccountInput{
		Name:           "Futures",
		AccountType:    "futures",
		InitialCapital: decimal.NewFromInt(5000),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if account.Currency != "USD" {
		t.Fatalf("currency=%s want=USD", account.Currency)
	}
	if account.CurrentCapital.Cmp(account.InitialCapital) != 0 {
		t.Fatalf("current=%s initial=%s should match at creation", account.CurrentCapital, account.InitialCapital)
	}
	if !account.IsActive {
		t.Fatalf("new account should be active")
	}
}

func TestEmotionLog_IntensityClamp(t *testing.T) {
	ctx := context.Background()
	repo := newStubRepo()
	svc := &EmotionService{Repo: repo}
	emotionID := "e1"

	over := 15
	log, err := svc.Log(ctx, "u1", EmotionLogInput{EmotionID: &emotionID, Intensity: &over})
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if log.Intensity != 10 {
		t.Fatalf("intensity=%d want=10", log.Intensity)
	}

	under := -3
	log, err = svc.Log(ctx, "u1", EmotionLogInput{EmotionID: &emotionID, Intensity: &under})
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if log.Intensity != 1 {
		t.Fatalf("intensity=%d want=1", log.Intensity)
	}

	log, err = svc.Log(ctx, "u1", EmotionLogInput{EmotionID: &emotionID})
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if log.Intensity != 5 {
		t.Fatalf("default intensity=%d want=5", log.Intensity)
	}
}

func TestEmotionLog_RequiresEmotionReference(t *testing.T) {
	svc := &EmotionService{Repo: newStubRepo()}
	if _, err := svc.Log(context.Background(), "u1", EmotionLogInput{}); err != ErrEmotionNotLinked {
		t.Fatalf("err=%v want=ErrEmotionNotLinked", err)
	}
}

func testUserService(repo *stubRepo) *UserService {
	return &UserService{
		Repo:   repo,
		JWT:    auth.JWT{Secret: []byte("test-secret"), TokenTTL: time.Hour},
		Hasher: auth.PasswordHasher{Cost: 4},
	}
}

func TestRegister_CreatesStarterAccount(t *testing.T) {
	ctx := context.Background()
	repo := newStubRepo()
	svc := testUserService(repo)

	result, err := svc.Register(ctx, RegisterInput{Username: "bob", Email: "bob@example.com", Password: "hunter22pass"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("register should return a token")
	}
	if result.User.Plan != models.PlanFree {
		t.Fatalf("plan=%s want=free", result.User.Plan)
	}
	if len(repo.accounts) != 1 {
		t.Fatalf("accounts=%d want=1", len(repo.accounts))
	}
	starter := repo.accounts[0]
	if starter.Name != "Cuenta Principal" || starter.AccountType != "forex" {
		t.Fatalf("starter=%+v", starter)
	}
	if starter.InitialCapital.Cmp(decimal.RequireFromString("10000.00")) != 0 {
		t.Fatalf("initial=%s want=10000.00", starter.InitialCapital.String())
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	repo := newStubRepo()
	svc := testUserService(repo)

	if _, err := svc.Register(ctx, RegisterInput{Username: "bob", Email: "bob@example.com", Password: "hunter22pass"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Username: "bob", Email: "other@example.com", Password: "hunter22pass"}); err != ErrUsernameTaken {
		t.Fatalf("err=%v want=ErrUsernameTaken", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Username: "carol", Email: "bob@example.com", Password: "hunter22pass"}); err != ErrEmailTaken {
		t.Fatalf("err=%v want=ErrEmailTaken", err)
	}
}

func TestLogin_ByUsernameAndEmail(t *testing.T) {
	ctx := context.Background()
	repo := newStubRepo()
	svc := testUserService(repo)

	if _, err := svc.Register(ctx, RegisterInput{Username: "bob", Email: "bob@example.com", Password: "hunter22pass"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Login(ctx, "bob", "hunter22pass"); err != nil {
		t.Fatalf("login by username: %v", err)
	}
	if _, err := svc.Login(ctx, "bob@example.com", "hunter22pass"); err != nil {
		t.Fatalf("login by email: %v", err)
	}
	if _, err := svc.Login(ctx, "bob", "wrong"); err != ErrInvalidCredentials {
		t.Fatalf("err=%v want=ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, "nobody", "hunter22pass"); err != ErrInvalidCredentials {
		t.Fatalf("err=%v want=ErrInvalidCredentials", err)
	}
}

func TestLogin_SuspendedUser(t *testing.T) {
	ctx := context.Background()
	repo := newStubRepo()
	svc := testUserService(repo)

	result, err := svc.Register(ctx, RegisterInput{Username: "bob", Email: "bob@example.com", Password: "hunter22pass"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	repo.users[result.User.ID].IsSuspended = true

	if _, err := svc.Login(ctx, "bob", "hunter22pass"); err != ErrUserSuspended {
		t.Fatalf("err=%v want=ErrUserSuspended", err)
	}
	// Wrong password on a suspended account must not leak the suspension.
	if _, err := svc.Login(ctx, "bob", "wrong"); err != ErrInvalidCredentials {
		t.Fatalf("err=%v want=ErrInvalidCredentials", err)
	}
}

func TestAnalytics_SixMonthWindow(t *testing.T) {
	ctx := context.Background()
	repo := newStubRepo()
	now := time.Now().UTC()
	thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	repo.monthly[thisMonth.Format("2006-01")] = repository.MonthlyActivityRow{
		Users:  3,
		Trades: 12,
		PnL:    decimal.RequireFromString("1234.56"),
	}
	repo.plans = repository.PlanDistribution{Free: 10, Plus: 4, Pro: 1}

	svc := &AdminService{Repo: repo, StartedAt: now}
	data, err := svc.Analytics(ctx)
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	if len(data.ChartData) != 6 {
		t.Fatalf("chart points=%d want=6", len(data.ChartData))
	}
	last := data.ChartData[5]
	if last.Name != thisMonth.Format("Jan") {
		t.Fatalf("last month name=%s want=%s", last.Name, thisMonth.Format("Jan"))
	}
	if last.Users != 3 || last.Trades != 12 || last.PnL != 1234 {
		t.Fatalf("last point=%+v", last)
	}
	if data.ChartData[0].Users != 0 {
		t.Fatalf("empty months should report zeros, got %+v", data.ChartData[0])
	}
	if len(data.PieData) != 3 || data.PieData[0].Name != "Free" || data.PieData[0].Value != 10 {
		t.Fatalf("pie=%+v", data.PieData)
	}
}

func TestNotificationSubscribe_ReceivesBroadcast(t *testing.T) {
	ctx := context.Background()
	repo := newStubRepo()
	svc := &NotificationService{Repo: repo}

	feed, cancel := svc.Subscribe()
	defer cancel()

	created, err := svc.Create(ctx, NotificationInput{Type: "info", Title: "Hello", Message: "World"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	select {
	case got := <-feed:
		if got.ID != created.ID || got.Title != "Hello" {
			t.Fatalf("got=%+v want id=%s", got, created.ID)
		}
	case <-time.After(time.Second):
		t.Fatalf("no broadcast received")
	}
}
