package command_line

import (
	"strings"
	"testing"
	"time"
)

func defaultArguments() CommandLineArguments {
	return CommandLineArguments{
		DataFile:      "/data/lineitem.tbl",
		WindowSize:    3000000,
		StartingPoint: 6000000,
		UpdaterCount:  1,
		InserterCount: 0,
		MaxBatchSize:  1000,
		Timeout:       5 * time.Second,
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		modify  func(*CommandLineArguments)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			modify: func(*CommandLineArguments) {},
		},
		{
			name:   "single inserter is valid",
			modify: func(args *CommandLineArguments) { args.InserterCount = 1 },
		},
		{
			name:   "zero updaters is valid",
			modify: func(args *CommandLineArguments) { args.UpdaterCount = 0 },
		},
		{
			name:    "two inserters rejected",
			modify:  func(args *CommandLineArguments) { args.InserterCount = 2 },
			wantErr: "can only insert with 1 goroutine",
		},
		{
			name:    "negative inserters rejected",
			modify:  func(args *CommandLineArguments) { args.InserterCount = -1 },
			wantErr: "cannot be negative",
		},
		{
			name:    "negative updaters rejected",
			modify:  func(args *CommandLineArguments) { args.UpdaterCount = -1 },
			wantErr: "cannot be negative",
		},
		{
			name:    "zero window rejected",
			modify:  func(args *CommandLineArguments) { args.WindowSize = 0 },
			wantErr: "window size must be positive",
		},
		{
			name: "inserter without data file rejected",
			modify: func(args *CommandLineArguments) {
				args.InserterCount = 1
				args.DataFile = ""
			},
			wantErr: "data-file must be provided",
		},
		{
			name:    "zero batch size rejected",
			modify:  func(args *CommandLineArguments) { args.MaxBatchSize = 0 },
			wantErr: "max-batch-size must be at least 1",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			args := defaultArguments()
			tc.modify(&args)
			err := args.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v; want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil; want error containing %q", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("Validate() = %v; want error containing %q", err, tc.wantErr)
			}
		})
	}
}

func TestBuildHostSelectionPolicy(t *testing.T) {
	t.Parallel()

	hosts := []string{"192.168.100.1", "192.168.100.2"}
	for _, policy := range []string{"round-robin", "host-pool", "token-aware"} {
		if _, err := buildHostSelectionPolicy(policy, hosts); err != nil {
			t.Errorf("buildHostSelectionPolicy(%q) = %v; want nil", policy, err)
		}
	}
	if _, err := buildHostSelectionPolicy("unknown", hosts); err == nil {
		t.Error("buildHostSelectionPolicy(\"unknown\") did not fail")
	}
}
