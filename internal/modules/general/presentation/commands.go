package presentation

import (
	"time"

	"github.com/sglre6355/pinkbean/internal/command"
	"github.com/sglre6355/pinkbean/internal/modules/general/domain"
	"github.com/sglre6355/pinkbean/internal/modules/general/infrastructure"
)

// subCooldown keeps a guild from flipping a subscription repeatedly.
const subCooldown = 2 * time.Second

var (
	prefixSpace = command.MustOption("-s", "include a following space", nil)

	subTime = command.MustOption("-t", "subscribe to time", nil)

	newsGeneral     = command.MustOption("-g", "general news", nil)
	newsUpdate      = command.MustOption("-u", "update news", nil)
	newsSale        = command.MustOption("-s", "sale news", nil)
	newsEvent       = command.MustOption("-e", "event news", nil)
	newsCommunity   = command.MustOption("-c", "community news", nil)
	newsMaintenance = command.MustOption("-m", "maintenance news", nil)

	newsCategories = command.NewMutexGroup(
		newsGeneral, newsUpdate, newsSale, newsEvent, newsCommunity, newsMaintenance,
	)

	newsCategoryOf = map[*command.Option]domain.NewsCategory{
		newsGeneral:     domain.NewsGeneral,
		newsUpdate:      domain.NewsUpdate,
		newsSale:        domain.NewsSale,
		newsEvent:       domain.NewsEvent,
		newsCommunity:   domain.NewsCommunity,
		newsMaintenance: domain.NewsMaintenance,
	}
)

var subDefinition = command.MustDefinition(command.Spec{
	Name:        "sub",
	Description: "Subscribe news or time periodically in a channel. Subscribe to news by default.",
	Brief:       "Toggle news or time subscription",
	Category:    command.CategoryMapleStory,
	Color:       infrastructure.ColorPink,
	AdminOnly:   true,
	Cooldown:    subCooldown,
	Options:     []*command.Option{subTime},
	Examples: []command.Example{
		{Args: "", Explain: "subscribe to news"},
		{Args: "-t", Explain: "subscribe to time"},
	},
})

var timeDefinition = command.MustDefinition(command.Spec{
	Name:        "time",
	Aliases:     []string{"daily", "weekly", "invasion"},
	Description: "Server time and reset times (daily/weekly/invasion).",
	Brief:       "Server time and reset times",
	Category:    command.CategoryMapleStory,
	Color:       infrastructure.ColorPink,
	Examples:    []command.Example{{Args: "", Explain: "show server time and reset times"}},
})

var newsDefinition = command.MustDefinition(command.Spec{
	Name:        "news",
	Description: "Latest MapleStory news. Show general news if no category is chosen.",
	Brief:       "Latest MapleStory news",
	Category:    command.CategoryMapleStory,
	Color:       infrastructure.ColorMaple,
	Options: []*command.Option{
		newsGeneral, newsUpdate, newsSale, newsEvent, newsCommunity, newsMaintenance,
	},
	Examples: []command.Example{
		{Args: "", Explain: "show general news"},
		{Args: "-u", Explain: "show update news"},
		{Args: "-m", Explain: "show maintenance news"},
	},
})

var prefixDefinition = command.MustDefinition(command.Spec{
	Name:                 "prefix",
	Description:          "Change the current prefix to `CONTENT`.",
	Brief:                "Customize prefix",
	Category:             command.CategoryGeneral,
	Color:                infrastructure.ColorBlue,
	AdminOnly:            true,
	Argument:             command.NewArgument(command.ArgumentSpec{Name: "CONTENT"}),
	ArgumentDescriptions: []string{"any text without spaces."},
	Options:              []*command.Option{prefixSpace},
	Examples: []command.Example{
		{Args: "#", Explain: "change prefix to `#` without any following spaces. E.g., `#help`"},
		{Args: "-s #", Explain: "change prefix to `#` with a following space. E.g., `# help`"},
	},
})

var inviteDefinition = command.MustDefinition(command.Spec{
	Name:        "invite",
	Description: "Generate invite link.",
	Category:    command.CategoryGeneral,
	Color:       infrastructure.ColorBlue,
	Examples:    []command.Example{{Args: "", Explain: "generate invite link"}},
})

var aboutDefinition = command.MustDefinition(command.Spec{
	Name:        "about",
	Description: "About Pink Bean.",
	Category:    command.CategoryGeneral,
	Color:       infrastructure.ColorBlue,
	Examples:    []command.Example{{Args: "", Explain: "show about"}},
})

var pingDefinition = command.MustDefinition(command.Spec{
	Name:        "ping",
	Description: "Pink Bean latency.",
	Category:    command.CategoryGeneral,
	Color:       infrastructure.ColorBlue,
	Examples:    []command.Example{{Args: "", Explain: "show the bot's previous heartbeat ping"}},
})

var helpDefinition = command.MustDefinition(command.Spec{
	Name:        "help",
	Description: "Show bot commands.",
	Category:    command.CategoryGeneral,
	Color:       infrastructure.ColorBlue,
	Examples:    []command.Example{{Args: "", Explain: "show bot commands"}},
})
