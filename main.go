package main

import "keyframe-curator/cmd"

func main() {
	cmd.Execute()
}
