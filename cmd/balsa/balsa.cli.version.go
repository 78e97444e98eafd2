package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// versionOutput represents JSON output for version
type versionOutput struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Branch    string `json:"branch"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// versionsYAML represents the versions.yaml file structure
type versionsYAML struct {
	Project struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"project"`
	Git struct {
		Commit string `yaml:"commit"`
		Branch string `yaml:"branch"`
	} `yaml:"git"`
	Build struct {
		Time      string `yaml:"time"`
		GoVersion string `yaml:"go_version"`
	} `yaml:"build"`
}

func newVersionCommand(app *cliApp) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   CmdNameVersion,
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := app.outputFormat(cmd, format, OutputFormatText, OutputFormatJSON)
			if err != nil {
				return err
			}
			v := getVersionInfo()
			if f == OutputFormatJSON {
				outputVersionJSON(v, app.stdout)
				return nil
			}
			outputVersionText(v, app.stdout)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, FlagFormat, FlagFormatShort, FlagDefaultFormat, "output format: text or json")
	return cmd
}

func getVersionInfo() *versionOutput {
	vInfo := &versionOutput{
		Version:   VersionUnknown,
		Commit:    VersionUnknown,
		Branch:    VersionUnknown,
		BuildTime: VersionUnknown,
		GoVersion: runtime.Version(),
	}

	// versions.yaml is written by the release build next to the binary's working directory
	paths := []string{"versions.yaml", "../versions.yaml", "../../versions.yaml"}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var vy versionsYAML
		if err := yaml.Unmarshal(data, &vy); err != nil {
			continue
		}

		if vy.Project.Version != "" {
			vInfo.Version = vy.Project.Version
		}
		if vy.Git.Commit != "" {
			vInfo.Commit = vy.Git.Commit
		}
		if vy.Git.Branch != "" {
			vInfo.Branch = vy.Git.Branch
		}
		if vy.Build.Time != "" {
			vInfo.BuildTime = vy.Build.Time
		}
		if vy.Build.GoVersion != "" {
			vInfo.GoVersion = vy.Build.GoVersion
		}
		break
	}

	return vInfo
}

func outputVersionText(v *versionOutput, stdout io.Writer) {
	fmt.Fprintf(stdout, VersionTextTemplate+FmtNewline,
		v.Version, v.Commit, v.Branch, v.BuildTime, v.GoVersion)
}

func outputVersionJSON(v *versionOutput, stdout io.Writer) {
	jsonBytes, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(stdout, string(jsonBytes))
}
