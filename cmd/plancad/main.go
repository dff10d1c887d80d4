package main

import "github.com/PlanLab/plancad/cmd/plancad/cmd"

func main() {
	cmd.Execute()
}
