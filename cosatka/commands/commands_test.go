package commands

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/catmaikl/cosatkaclickmserv/cosatka/economy/catalog"
	"github.com/catmaikl/cosatkaclickmserv/cosatka/economy/engine"
	"github.com/disgoorg/disgo/discord"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name  string
		cur   int64
		total int64
		want  string
	}{
		{name: "Half", cur: 5, total: 10, want: "▰▰▰▰▰▱▱▱▱▱"},
		{name: "Empty", cur: 0, total: 100, want: "▱▱▱▱▱▱▱▱▱▱"},
		{name: "Overflow clamps", cur: 250, total: 100, want: "▰▰▰▰▰▰▰▰▰▰"},
		{name: "Zero total", cur: 3, total: 0, want: "▱▱▱▱▱▱▱▱▱▱"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := progressBar(tt.cur, tt.total); got != tt.want {
				t.Errorf("progressBar() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{d: 45 * time.Second, want: "45s"},
		{d: 90 * time.Second, want: "1m 30s"},
		{d: 3*time.Hour + 12*time.Minute, want: "3h 12m"},
		{d: 26 * time.Hour, want: "1d 2h"},
		{d: 0, want: "0s"},
		{d: -time.Minute, want: "0s"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := formatDuration(tt.d); got != tt.want {
				t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	c := catalog.Kosatka()
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "Funds",
			err:  fmt.Errorf("buy: %w", &engine.InsufficientFundsError{Required: 150, Available: 40}),
			want: "You need **150** pearls but only have **40**.",
		},
		{
			name: "Energy",
			err:  &engine.InsufficientEnergyError{Required: 10, Available: 3},
			want: "you have **3** and need **10**",
		},
		{
			name: "Unknown",
			err:  &engine.UnknownActionError{Kind: "item", ID: "laser"},
			want: "There is no item called `laser` in Kosatka.",
		},
		{
			name: "Max level",
			err:  fmt.Errorf("%w: offline_multiplier", engine.ErrMaxLevel),
			want: "max level",
		},
		{
			name: "Not found",
			err:  engine.ErrNotFound,
			want: "`/kosatka act`",
		},
		{
			name: "Persistence",
			err:  &engine.PersistenceError{Op: "store", Err: engine.ErrVersionConflict},
			want: "try again later",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorMessage(tt.err, c); !strings.Contains(got, tt.want) {
				t.Errorf("errorMessage() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestMatchItems(t *testing.T) {
	items := catalog.Kosatka().Items
	tests := []struct {
		name    string
		query   string
		limit   int
		wantIDs []string
	}{
		{name: "Empty query keeps order", query: "", limit: 3, wantIDs: []string{"fish", "shrimp", "squid"}},
		{name: "Fuzzy", query: "orca", limit: 25, wantIDs: []string{"baby_orca"}},
		{name: "No match", query: "zzz", limit: 25, wantIDs: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchItems(items, tt.query, tt.limit)
			ids := make([]string, 0, len(got))
			for _, it := range got {
				ids = append(ids, it.ID)
			}
			if strings.Join(ids, ",") != strings.Join(tt.wantIDs, ",") {
				t.Errorf("matchItems() = %v, want %v", ids, tt.wantIDs)
			}
		})
	}
}

func TestResolveItemID(t *testing.T) {
	c := catalog.Kosatka()
	tests := []struct {
		input string
		want  string
	}{
		{input: "fish", want: "fish"},
		{input: "Beach Ball", want: "ball"},
		{input: "  BALL ", want: "ball"},
		{input: "laser", want: "laser"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := resolveItemID(c, tt.input); got != tt.want {
				t.Errorf("resolveItemID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestShopEntries(t *testing.T) {
	c := catalog.Kosatka()
	eng, err := engine.New(c)
	if err != nil {
		t.Fatal(err)
	}
	u := eng.NewUser("1", "orca", t0)
	u.Producers = 2
	u.UpgradeLevels[engine.UpgradeOfflineMultiplier] = 10

	entries := shopEntries(eng.Profile(u, t0), c)
	if len(entries) != len(c.Items)+len(c.Upgrades) {
		t.Fatalf("shopEntries() returned %d entries, want %d", len(entries), len(c.Items)+len(c.Upgrades))
	}

	producer := entries[len(c.Items)-1]
	if producer.Cost != 300 {
		t.Errorf("baby orca cost = %d, want 300", producer.Cost)
	}
	maxed := entries[len(entries)-1]
	if maxed.Cost != 0 || maxed.Text != "max level reached" {
		t.Errorf("maxed upgrade entry = %+v", maxed)
	}

	page := shopPage(entries, c, 1, 5)
	if !strings.Contains(page, "Baby Orca") || strings.Contains(page, "Fish") {
		t.Errorf("shopPage(1) = %q", page)
	}
	if got := shopPage(entries, c, 5, 5); got != "Nothing for sale." {
		t.Errorf("shopPage() past the end = %q", got)
	}
}

func TestTopPage(t *testing.T) {
	c := catalog.Kosatka()
	users := []*engine.UserEconomy{
		{UserID: "1", Username: "alpha", TotalEarned: 300, Level: 3},
		{UserID: "2", TotalEarned: 200, Level: 2},
		{UserID: "3", Username: "gamma", TotalEarned: 100, Level: 1},
		{UserID: "4", Username: "delta", TotalEarned: 50, Level: 1},
	}

	got := topPage(users, c, 0, 10)
	for _, want := range []string{"🥇 **alpha**: 300 pearls", "🥈 **<@2>**", "🥉 **gamma**", "`#4` **delta**"} {
		if !strings.Contains(got, want) {
			t.Errorf("topPage() = %q, want it to contain %q", got, want)
		}
	}
	if got := topPage(nil, c, 0, 10); got != "Nobody has played yet." {
		t.Errorf("topPage(nil) = %q", got)
	}
}

func TestAchievementList(t *testing.T) {
	c := catalog.Kosatka()
	u := &engine.UserEconomy{Achievements: map[string]time.Time{"first_splash": t0}}

	got := achievementList(u, c)
	if !strings.Contains(got, "✅ **First Splash**") {
		t.Errorf("achievementList() missing unlocked entry: %q", got)
	}
	if !strings.Contains(got, "🔒 **Pearl Pile**") {
		t.Errorf("achievementList() missing locked entry: %q", got)
	}
	if got := unlockedText(nil); got != "" {
		t.Errorf("unlockedText(nil) = %q, want empty", got)
	}
	if got := unlockedText(c.Achievements[:2]); !strings.Contains(got, "**First Splash**, **Pearl Pile**") {
		t.Errorf("unlockedText() = %q", got)
	}
}

func TestDefinition(t *testing.T) {
	for _, c := range catalog.Builtin() {
		t.Run(c.Game, func(t *testing.T) {
			cmd := Definition(c)
			if cmd.Name != c.Game {
				t.Errorf("Definition().Name = %q, want %q", cmd.Name, c.Game)
			}

			subs := map[string]discord.ApplicationCommandOptionSubCommand{}
			for _, opt := range cmd.Options {
				sub, ok := opt.(discord.ApplicationCommandOptionSubCommand)
				if !ok {
					t.Fatalf("option %T is not a subcommand", opt)
				}
				subs[sub.Name] = sub
			}
			for _, name := range []string{"profile", "act", "shop", "buy", "upgrade", "claim", "achievements", "top"} {
				if _, ok := subs[name]; !ok {
					t.Errorf("missing subcommand %q", name)
				}
			}

			action := subs["act"].Options[0].(discord.ApplicationCommandOptionString)
			if len(action.Choices) != len(c.Actions) {
				t.Errorf("act choices = %d, want %d", len(action.Choices), len(c.Actions))
			}
			item := subs["buy"].Options[0].(discord.ApplicationCommandOptionString)
			if !item.Autocomplete {
				t.Error("buy item option should autocomplete")
			}
		})
	}

	if got := Definitions(catalog.Kosatka(), catalog.Miner()); len(got) != 2 {
		t.Errorf("Definitions() returned %d commands, want 2", len(got))
	}
}
