package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron"

	"github.com/aavugari/Smart-Expense-Monitor/internal/analytics"
	"github.com/aavugari/Smart-Expense-Monitor/internal/digest"
	"github.com/aavugari/Smart-Expense-Monitor/internal/extractor"
	"github.com/aavugari/Smart-Expense-Monitor/internal/merger"
	"github.com/aavugari/Smart-Expense-Monitor/pkg/config"
)

type Runner interface {
	Run() error
}

var runner Runner

func main() {
	singleRun := flag.Bool("single-run", false, "run task once (disable cron)")
	configFile := flag.String("config", "./config.yml", "configuration file")
	secretsFile := flag.String("secrets", "./secrets.ejson", "secrets file")
	help := flag.Bool("help", false, "show command help")

	flag.Parse()

	if *help {
		fmt.Println("smart expense monitor")
		fmt.Println("expense-monitor [options] task")
		fmt.Println("tasks: extract, merge, digest, weekly-digest, analytics")
		flag.PrintDefaults()
		return
	}

	err := config.ReadConfig("MONITOR_CONFIG", *configFile, *secretsFile)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if flag.NArg() == 0 {
		fmt.Println("No task passed in")
		return
	}

	switch flag.Arg(0) {
	case "extract":
		runner, err = extractor.NewExtractRunner()
	case "merge":
		runner, err = merger.NewMergeRunner()
	case "digest":
		runner, err = digest.NewDigestRunner(false)
	case "weekly-digest":
		runner, err = digest.NewDigestRunner(true)
	case "analytics":
		runner, err = analytics.NewAnalyticsRunner()
	default:
		fmt.Printf("Unknown task %s\n", flag.Arg(0))
		return
	}

	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	run()

	if *singleRun {
		return
	}

	c := cron.New()
	c.AddFunc(config.CurrentConfig().UpdateFrequency, run)

	c.Start()

	select {}

}

func run() {
	fmt.Println(time.Now().Format(time.RFC850))
	err := runner.Run()
	if err != nil {
		fmt.Println(err)
	}
}
