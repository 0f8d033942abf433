// Package commands exposes each game catalog as one Discord slash command
// with a subcommand per economy operation.
package commands

import (
	"fmt"

	"github.com/catmaikl/cosatkaclickmserv/cosatka/config"
	"github.com/catmaikl/cosatkaclickmserv/cosatka/economy/engine"
	"github.com/disgoorg/disgo/discord"
)

// Definition builds the slash command for one game. Action and upgrade
// choices come from the catalog; items are offered through autocomplete.
func Definition(c *engine.Catalog) discord.SlashCommandCreate {
	actions := make([]discord.ApplicationCommandOptionChoiceString, 0, len(c.Actions))
	for _, a := range c.Actions {
		if len(actions) == config.MaxAutocomplete {
			break
		}
		actions = append(actions, discord.ApplicationCommandOptionChoiceString{
			Name:  fmt.Sprintf("%s %s (%d energy)", a.Emoji, a.Name, a.EnergyCost),
			Value: a.ID,
		})
	}

	upgrades := make([]discord.ApplicationCommandOptionChoiceString, 0, len(c.Upgrades))
	for _, up := range c.Upgrades {
		upgrades = append(upgrades, discord.ApplicationCommandOptionChoiceString{
			Name:  up.Name,
			Value: string(up.Kind),
		})
	}

	return discord.SlashCommandCreate{
		Name:        c.Game,
		Description: fmt.Sprintf("Play %s and earn %s", c.Title, c.Currency),
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionSubCommand{
				Name:        "profile",
				Description: "Show currency, level, energy and upgrades",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionUser{
						Name:        "user",
						Description: "View another player's profile",
						Required:    false,
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "act",
				Description: "Spend energy on an action",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionString{
						Name:        "action",
						Description: "What to do",
						Required:    true,
						Choices:     actions,
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "shop",
				Description: "Browse items and upgrades with your prices",
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "buy",
				Description: "Buy an item",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionString{
						Name:         "item",
						Description:  "Item name or id",
						Required:     true,
						Autocomplete: true,
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "upgrade",
				Description: "Buy the next level of an upgrade",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionString{
						Name:        "kind",
						Description: "Upgrade to level up",
						Required:    true,
						Choices:     upgrades,
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "claim",
				Description: fmt.Sprintf("Collect what your %ss earned while you were away", producerName(c)),
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "achievements",
				Description: "List achievements and your progress",
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "top",
				Description: "Show the leaderboard",
			},
		},
	}
}

// Definitions returns one command per catalog, in the order given.
func Definitions(catalogs ...*engine.Catalog) []discord.ApplicationCommandCreate {
	cmds := make([]discord.ApplicationCommandCreate, 0, len(catalogs))
	for _, c := range catalogs {
		cmds = append(cmds, Definition(c))
	}
	return cmds
}
