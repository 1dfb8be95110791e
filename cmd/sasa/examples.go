package main

import (
	"fmt"
	"io"
)

type example struct {
	Task        string
	Description string
}

var examples = []example{
	{
		Task:        "Create a new React component called Button in src/components",
		Description: "Creates a new file with boilerplate React component code",
	},
	{
		Task:        "Find all TODO comments in JavaScript files and create a summary",
		Description: "Searches files and aggregates TODO items",
	},
	{
		Task:        "Download the latest release info from GitHub API for nodejs/node",
		Description: "Makes HTTP request and formats the data",
	},
	{
		Task:        "Create a project structure for a Node.js API with folders for routes, controllers, and models",
		Description: "Creates multiple directories and files",
	},
	{
		Task:        "Analyze package.json and list all outdated dependencies",
		Description: "Reads file, executes npm commands, and summarizes",
	},
}

func printExamples(w io.Writer, p painter) {
	fmt.Fprintln(w, p.paint(bold+blue, "\n📋 Example Tasks:\n"))
	for i, ex := range examples {
		fmt.Fprintln(w, p.paint(green, fmt.Sprintf("%d. %s", i+1, ex.Task)))
		fmt.Fprintln(w, p.paint(gray, fmt.Sprintf("   → %s\n", ex.Description)))
	}
	fmt.Fprintln(w, p.paint(yellow, "Run any example with:"))
	fmt.Fprintln(w, p.paint(cyan, "  sasa run \"your task here\"\n"))
}
