package synth

// Per-type monitor prototypes. Each synthesized monitor starts as a deep
// clone of one of these; the prototypes themselves are never mutated.

const httpPrototype = `
name: ""
pulse_check:
  type: http
  interval: 5s
  timeout: 3s
  max_failures: 3
  config:
    retries: 2
    method: GET
    url: ""
codes:
  red:
    dispatch: true
    notify: pagerduty
    config:
      url: pager
  yellow:
    dispatch: true
    notify: log
    config:
      file: test-code.txt
`

const tcpPrototype = `
name: ""
pulse_check:
  type: tcp
  interval: 10s
  timeout: 5s
  max_failures: 3
  config:
    retries: 3
    host: ""
    port: 0
codes:
  red:
    dispatch: true
    notify: pagerduty
    config:
      url: pager
  yellow:
    dispatch: true
    notify: log
    config:
      file: test-code.txt
`

const icmpPrototype = `
name: ""
pulse_check:
  type: icmp
  interval: 15s
  timeout: 5s
  max_failures: 3
  config:
    retries: 3
    host: ""
codes:
  red:
    dispatch: true
    notify: log
    config:
      file: critical_alerts.log
  yellow:
    dispatch: true
    notify: log
    config:
      file: warning_alerts.log
`
