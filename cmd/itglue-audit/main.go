/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

func main() {
	if err := Execute(); err != nil {
		Logger.Fatal().Err(err).Msg("itglue-audit failed")
	}
}
