package discord

import (
	"github.com/sglre6355/pinkbean/internal/command"
)

// ColorMusic is the embed color of music commands.
const ColorMusic = 0x9033FF

var (
	playListLimit = command.MustOption(
		"-s",
		"set the maximum size to k when adding a playlist (default 50; max 200)",
		command.NewArgument(command.ArgumentSpec{Name: "k", Natural: true}),
	)

	skipAll  = command.MustOption("-a", "remove all songs", nil)
	skipLast = command.MustOption("-l", "remove the last song", nil)
	skipMine = command.MustOption("-m", "remove songs requested by me and ignore others", nil)
)

var playDefinition = command.MustDefinition(command.Spec{
	Name:        "play",
	Aliases:     []string{"p"},
	Description: "Play a youtube link or search keywords on YouTube. Resume playing if nothing is provided.",
	Brief:       "Play a youtube link or search keywords on YouTube",
	Category:    command.CategoryMusic,
	Color:       ColorMusic,
	Argument:    command.NewArgument(command.ArgumentSpec{Name: "SONG", Variadic: true}),
	ArgumentDescriptions: []string{
		"a YouTube link",
		"keywords to be searched",
	},
	Options: []*command.Option{playListLimit},
	Examples: []command.Example{
		{Args: "", Explain: "resume playing"},
		{Args: "maplestory ost", Explain: `search "maplestory ost"`},
		{Args: "https://youtu.be/UIuNE1bjQRs", Explain: "play the linked song"},
		{
			Args:    "-s 10 https://www.youtube.com/playlist?list=PLuL3g-gXJLrGtryAZk9tWFEDbkL6YvMQI",
			Explain: "play up to 10 songs from the playlist",
		},
	},
})

var pauseDefinition = command.MustDefinition(command.Spec{
	Name:        "pause",
	Description: "Pause the current song.",
	Category:    command.CategoryMusic,
	Color:       ColorMusic,
	Examples:    []command.Example{{Args: "", Explain: "pause the current song"}},
})

var resumeDefinition = command.MustDefinition(command.Spec{
	Name:        "resume",
	Description: "Resume music.",
	Category:    command.CategoryMusic,
	Color:       ColorMusic,
	Examples:    []command.Example{{Args: "", Explain: "resume music"}},
})

var skipDefinition = command.MustDefinition(command.Spec{
	Name:        "skip",
	Aliases:     []string{"clear", "remove", "s", "r"},
	Description: "Remove songs by providing their indexes in queue. Remove the current song if nothing is provided.",
	Brief:       "Remove songs from the queue",
	Category:    command.CategoryMusic,
	Color:       ColorMusic,
	Argument: command.NewArgument(command.ArgumentSpec{
		Name:      "INDEX",
		Rangeable: true,
		Variadic:  true,
	}),
	Options: []*command.Option{skipAll, skipLast, skipMine},
	Examples: []command.Example{
		{Args: "", Explain: "remove the current song"},
		{Args: "1 3", Explain: "remove the 1st and the 3rd songs"},
		{Args: "2..5", Explain: "remove songs 2 to 5"},
		{Args: "3..", Explain: "remove every song from the 3rd"},
		{Args: "-a||..", Explain: "remove all songs"},
		{Args: "-a -m", Explain: "remove all songs requested by me"},
		{Args: "-l", Explain: "remove the last song"},
	},
})

var queueDefinition = command.MustDefinition(command.Spec{
	Name:        "queue",
	Aliases:     []string{"q"},
	Description: "Show queued songs.",
	Category:    command.CategoryMusic,
	Color:       ColorMusic,
	Examples:    []command.Example{{Args: "", Explain: "show queued songs"}},
})

var shuffleDefinition = command.MustDefinition(command.Spec{
	Name:        "shuffle",
	Description: "Shuffle queued songs if there are any.",
	Category:    command.CategoryMusic,
	Color:       ColorMusic,
	Examples:    []command.Example{{Args: "", Explain: "shuffle every song after the current one"}},
})

var currentDefinition = command.MustDefinition(command.Spec{
	Name:        "current",
	Aliases:     []string{"c"},
	Description: "Show current song.",
	Category:    command.CategoryMusic,
	Color:       ColorMusic,
	Examples:    []command.Example{{Args: "", Explain: "show the song being played"}},
})

var joinDefinition = command.MustDefinition(command.Spec{
	Name:        "join",
	Aliases:     []string{"j"},
	Description: "Join voice channel.",
	Category:    command.CategoryMusic,
	Color:       ColorMusic,
	Examples: []command.Example{
		{Args: "", Explain: "make the bot join into the member's voice channel"},
	},
})

var leaveDefinition = command.MustDefinition(command.Spec{
	Name:        "leave",
	Aliases:     []string{"l"},
	Description: "Leave voice channel.",
	Category:    command.CategoryMusic,
	Color:       ColorMusic,
	Examples:    []command.Example{{Args: "", Explain: "make the bot leave its voice channel"}},
})
