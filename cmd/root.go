package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"flyer-studio/internal/app"
	"flyer-studio/internal/logging"
	"flyer-studio/ui/mainwindow"
	"flyer-studio/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands.
// Run without arguments it launches the editor; an optional argument opens
// that image as the flyer.
var rootCmd = &cobra.Command{
	Use:   "flyer-studio [flyer-image]",
	Short: "Trace photo zones on a flyer and fill them with product photos.",
	Long: `Flyer Studio is an editor for advertising flyers: trace the photo
zones on a flyer scan, drop product photos into them, adjust each photo's
position, scale, and rotation, and export the finished flyer as an image.

Layouts are saved to a local database and can be reloaded, listed, and
exported from the command line.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGUI(args)
	},
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.flyer-studio.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
	rootCmd.PersistentFlags().String("store", "", "layout database (default from config, store.path)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".flyer-studio")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			home, _ := homedir.Dir()
			configPath := home + "/.flyer-studio.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s", err)
			}
		}
	}

	viper.SetDefault("store.path", defaultStorePath())
	viper.SetDefault("ocr.language", "eng")

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	logging.SetLevel(levelString)
}

// storePath resolves the layout database location: flag first, then config.
func storePath() string {
	if p, _ := rootCmd.PersistentFlags().GetString("store"); p != "" {
		return p
	}
	return viper.GetString("store.path")
}

// appConfig assembles the application config from flags and the config file.
func appConfig() app.Config {
	return app.Config{
		StorePath:   storePath(),
		OCRLanguage: viper.GetString("ocr.language"),
	}
}

func defaultStorePath() string {
	home, err := homedir.Dir()
	if err != nil {
		return "layouts.db"
	}
	return filepath.Join(home, ".local", "share", "flyer-studio", "layouts.db")
}

func runGUI(args []string) error {
	studio, err := app.New(appConfig())
	if err != nil {
		return err
	}

	ui := fyneapp.New()
	ui.Settings().SetTheme(&app.StudioTheme{})

	p := prefs.Load()
	mw := mainwindow.New(ui, studio, p)

	if len(args) == 1 {
		if err := studio.OpenFlyerFile(args[0]); err != nil {
			logging.Log.WithError(err).WithField("file", args[0]).Warn("could not open flyer from command line")
		}
	}

	setupHotReload(mw)

	mw.ShowAndRun()
	studio.Close()
	return nil
}

// setupHotReload configures automatic restart detection when the binary is recompiled.
func setupHotReload(mw *mainwindow.MainWindow) {
	reloader := app.NewHotReloader(2 * time.Second)
	if reloader == nil {
		logging.Log.Warn("hot reload: unable to determine executable path")
		return
	}

	reloader.OnNewBinary(func() {
		dialog.ShowConfirm("New Version Available",
			"The application binary has been updated. Restart now?",
			func(ok bool) {
				if !ok {
					reloader.ResetBaseline()
					reloader.Start()
					return
				}
				mw.SavePreferences()
				if err := reloader.Restart(); err != nil {
					logging.Log.WithError(err).Error("hot reload restart failed")
				}
			},
			mw)
	})

	reloader.Start()
}
