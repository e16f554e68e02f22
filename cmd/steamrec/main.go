// Copyright 2024 steamrec Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kgtkgtkg/steamrec/base/log"
	"github.com/kgtkgtkg/steamrec/cache"
	"github.com/kgtkgtkg/steamrec/config"
	"github.com/kgtkgtkg/steamrec/engine"
	"github.com/kgtkgtkg/steamrec/server"
	"github.com/kgtkgtkg/steamrec/steam"
	"github.com/kgtkgtkg/steamrec/storage/roster"
)

// Version is injected at build time.
var Version = "dev"

var steamrecCommand = &cobra.Command{
	Use:   "steamrec",
	Short: "A user-based collaborative filtering recommender for Steam games.",
	Run: func(cmd *cobra.Command, args []string) {
		// Show version
		if showVersion, _ := cmd.PersistentFlags().GetBool("version"); showVersion {
			fmt.Println(Version)
			return
		}
		// setup logger
		debug, _ := cmd.PersistentFlags().GetBool("debug")
		log.SetLogger(cmd.PersistentFlags(), debug)

		// Load config
		configPath, _ := cmd.PersistentFlags().GetString("config")
		log.Logger().Info("load config", zap.String("config", configPath))
		conf, err := config.LoadConfig(configPath)
		if err != nil {
			log.Logger().Fatal("failed to load config", zap.Error(err))
		}

		// Open roster store
		rosterDB, err := roster.Open(conf.Roster.Store)
		if err != nil {
			log.Logger().Fatal("failed to open roster store",
				zap.String("store", conf.Roster.Store), zap.Error(err))
		}
		defer func() {
			if err := rosterDB.Close(); err != nil {
				log.Logger().Error("failed to close roster store", zap.Error(err))
			}
		}()

		// Create recommender
		fetcher := steam.NewClient(conf.Steam)
		groupCache := cache.NewGroupCache(fetcher, conf.Cache.TTL)
		recommender := engine.NewRecommender(conf, fetcher, rosterDB, groupCache)

		// Start server
		s := server.NewRestServer(conf, recommender)
		s.StartHttpServer()
	},
}

func init() {
	log.AddFlags(steamrecCommand.PersistentFlags())
	steamrecCommand.PersistentFlags().Bool("debug", false, "use debug log mode")
	steamrecCommand.PersistentFlags().StringP("config", "c", "", "configuration file path")
	steamrecCommand.PersistentFlags().BoolP("version", "v", false, "steamrec version")
}

func main() {
	if err := steamrecCommand.Execute(); err != nil {
		log.Logger().Fatal("failed to execute", zap.Error(err))
	}
}
