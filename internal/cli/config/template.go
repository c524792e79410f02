package config

const contextTemplateYAML = `# Context catalog template for netforge.
# Fill the fields you need and remove examples/comments as desired.
contexts:
  - name: my-context
    netbox:
      base-url: https://netbox.example.com

      # Mutually exclusive: choose at most one token source.
      # When the whole auth block is omitted, the NETBOX_TOKEN environment
      # variable is used instead.
      auth:
        token: change-me
        # token-file: /path/to/token.txt
        # secret-ref: netbox-token

      # Optional request tuning.
      # timeout: 30s
      # minimum-version: "3.5"

      # Optional read cache for list calls. Conflict checks always bypass it.
      # cache:
      #   enabled: true
      #   ttl: 30s

      # Optional client-side rate limit.
      # rate-limit:
      #   requests-per-second: 10
      #   burst: 10

      # Optional TLS.
      # tls:
      #   ca-cert-file: /path/to/ca.pem
      #   client-cert-file: /path/to/client.pem
      #   client-key-file: /path/to/client-key.pem
      #   insecure-skip-verify: false

    # Optional safety switches.
    # safety:
    #   dry-run-mode: false

    # Optional device-type library checkout.
    # library:
    #   repository-url: https://github.com/netbox-community/devicetype-library.git
    #   branch: master
    #   base-dir: ~/.netforge/devicetype-library

    # Optional telemetry overrides.
    # telemetry:
    #   logging:
    #     level: info
    #     format: console
    #     output: stderr
    #   metrics:
    #     enabled: false
    #     listen-address: ":9464"
    #   tracing:
    #     enabled: false
    #     exporter: otlp-grpc
    #     endpoint: collector:4317
    #     insecure: false
    #     sampling-rate: 1.0

    # Optional secret store for tokens referenced via auth.secret-ref.
    # secret-store:
    #   file:
    #     path: ~/.netforge/tokens.enc
    #     # Mutually exclusive: choose exactly one passphrase source.
    #     passphrase: change-me
    #     # passphrase-file: /path/to/passphrase.txt
    #     # Optional KDF tuning.
    #     # kdf:
    #     #   time: 1
    #     #   memory: 65536
    #     #   threads: 4

current-ctx: my-context
`
