package main

import "github.com/jmehdipour/sms-admin/cmd"

func main() {
	cmd.Execute()
}
